// Package moneyfmt renders decimal amounts as localized currency strings.
package moneyfmt

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a caller passes an unknown currency code.
const DefaultCurrency = money.USD

// Display renders an amount in the given ISO 4217 currency.
func Display(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// DisplaySigned renders an amount with an explicit sign, for delta columns.
func DisplaySigned(amount decimal.Decimal, currency string) string {
	s := Display(amount, currency)
	if amount.IsPositive() {
		return "+" + s
	}
	return s
}

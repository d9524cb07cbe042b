package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/store"
)

// AnalysisEngine is the seam to the external probability/gap-analysis
// subsystem. For a (goals, profile, scenario profile) triple it must yield a
// per-goal success probability in [0,1], an achievement timeline, and a
// net-worth trajectory consistent with the scenario's assumptions.
type AnalysisEngine interface {
	RunScenario(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile, sp domain.ScenarioProfile) (*domain.ScenarioResult, error)
}

// ParameterSource supplies a household's own planning assumptions. Both
// methods may fail or return nothing; the generator falls back to archetype
// defaults either way.
type ParameterSource interface {
	InflationAssumption(profileID string) (decimal.Decimal, error)
	ReturnAssumptions(profileID string) (map[string]decimal.Decimal, error)
}

// StaticParameters is a fixed-value ParameterSource, typically populated from
// a plan file's user_assumptions block.
type StaticParameters struct {
	Inflation *decimal.Decimal           `yaml:"inflation,omitempty" json:"inflation,omitempty"`
	Returns   map[string]decimal.Decimal `yaml:"market_returns,omitempty" json:"market_returns,omitempty"`
}

// InflationAssumption implements ParameterSource.
func (sp *StaticParameters) InflationAssumption(string) (decimal.Decimal, error) {
	if sp.Inflation == nil {
		return decimal.Zero, nil
	}
	return *sp.Inflation, nil
}

// ReturnAssumptions implements ParameterSource.
func (sp *StaticParameters) ReturnAssumptions(string) (map[string]decimal.Decimal, error) {
	return sp.Returns, nil
}

// CustomScenario defines a fully user-specified scenario. Name, Description,
// MarketReturns, InflationAssumption, IncomeGrowthRates and ExpensePatterns
// are mandatory; life events and metadata are optional.
type CustomScenario struct {
	Name                string                     `yaml:"name" json:"name"`
	Description         string                     `yaml:"description" json:"description"`
	MarketReturns       map[string]decimal.Decimal `yaml:"market_returns" json:"market_returns"`
	InflationAssumption *decimal.Decimal           `yaml:"inflation_assumption" json:"inflation_assumption"`
	IncomeGrowthRates   map[string]decimal.Decimal `yaml:"income_growth_rates" json:"income_growth_rates"`
	ExpensePatterns     map[string]decimal.Decimal `yaml:"expense_patterns" json:"expense_patterns"`
	LifeEvents          []domain.LifeEvent         `yaml:"life_events,omitempty" json:"life_events,omitempty"`
	Metadata            map[string]string          `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// MissingField returns the first mandatory field that is absent, or "".
func (cs *CustomScenario) MissingField() string {
	switch {
	case cs.Name == "":
		return "name"
	case cs.Description == "":
		return "description"
	case len(cs.MarketReturns) == 0:
		return "market_returns"
	case cs.InflationAssumption == nil:
		return "inflation_assumption"
	case len(cs.IncomeGrowthRates) == 0:
		return "income_growth_rates"
	case len(cs.ExpensePatterns) == 0:
		return "expense_patterns"
	}
	return ""
}

// Generator builds scenarios from archetypes and overrides and delegates
// outcome computation to the injected analysis engine.
type Generator struct {
	Archetypes *ArchetypeRegistry
	Engine     AnalysisEngine
	Params     ParameterSource  // optional
	Store      store.Repository // save/load registry
	Logger     Logger
}

// NewGenerator creates a generator with its own archetype registry and an
// in-memory scenario store.
func NewGenerator(engine AnalysisEngine) *Generator {
	return &Generator{
		Archetypes: NewArchetypeRegistry(),
		Engine:     engine,
		Store:      store.NewMemoryStore(),
		Logger:     NopLogger{},
	}
}

// SetLogger sets the generator's logger. A nil logger restores the no-op.
func (g *Generator) SetLogger(l Logger) {
	if l == nil {
		g.Logger = NopLogger{}
		return
	}
	g.Logger = l
}

// GenerateStandardScenarios builds and analyzes all five built-in archetypes.
// Only the baseline archetype's inflation and return assumptions may be
// replaced by the household's own figures from the parameter source; the
// other archetypes stay fixed relative stress deviations.
func (g *Generator) GenerateStandardScenarios(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile) (map[string]*domain.ScenarioResult, error) {
	results := make(map[string]*domain.ScenarioResult, len(StandardArchetypes()))
	for _, name := range StandardArchetypes() {
		sp, err := g.Archetypes.Defaults(name)
		if err != nil {
			return nil, err
		}
		if name == ArchetypeBaseline {
			g.applyUserAssumptions(&sp, profile)
		}
		result, err := g.runScenarioAnalysis(ctx, goals, profile, sp)
		if err != nil {
			return nil, fmt.Errorf("scenario %q analysis failed: %w", name, err)
		}
		results[name] = result
	}
	return results, nil
}

// GenerateTargetedScenario builds and analyzes a single archetype.
func (g *Generator) GenerateTargetedScenario(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile, scenarioType string) (*domain.ScenarioResult, error) {
	sp, err := g.Archetypes.Defaults(scenarioType)
	if err != nil {
		return nil, err
	}
	if scenarioType == ArchetypeBaseline {
		g.applyUserAssumptions(&sp, profile)
	}
	return g.runScenarioAnalysis(ctx, goals, profile, sp)
}

// CreateCustomScenario builds and analyzes a fully user-specified scenario.
func (g *Generator) CreateCustomScenario(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile, custom CustomScenario) (*domain.ScenarioResult, error) {
	if field := custom.MissingField(); field != "" {
		return nil, &MissingFieldError{Field: field}
	}
	sp := domain.ScenarioProfile{
		Name:                custom.Name,
		Description:         custom.Description,
		MarketReturns:       custom.MarketReturns,
		InflationAssumption: *custom.InflationAssumption,
		IncomeGrowthRates:   custom.IncomeGrowthRates,
		ExpensePatterns:     custom.ExpensePatterns,
		LifeEvents:          custom.LifeEvents,
		Metadata:            custom.Metadata,
		CreatedAt:           time.Now().UTC(),
	}
	if sp.Metadata == nil {
		sp.Metadata = map[string]string{"type": "custom"}
	}
	return g.runScenarioAnalysis(ctx, goals, profile, sp.Clone())
}

// runScenarioAnalysis delegates to the injected engine.
func (g *Generator) runScenarioAnalysis(ctx context.Context, goals []domain.Goal, profile *domain.HouseholdProfile, sp domain.ScenarioProfile) (*domain.ScenarioResult, error) {
	if g.Engine == nil {
		return nil, fmt.Errorf("no analysis engine configured")
	}
	result, err := g.Engine.RunScenario(ctx, goals, profile, sp)
	if err != nil {
		return nil, err
	}
	if result.AnalysisDate.IsZero() {
		result.AnalysisDate = time.Now().UTC()
	}
	return result, nil
}

// applyUserAssumptions swaps the household's own inflation and return
// assumptions into a scenario profile. Parameter-source failures are logged
// and ignored, keeping the archetype defaults.
func (g *Generator) applyUserAssumptions(sp *domain.ScenarioProfile, profile *domain.HouseholdProfile) {
	if g.Params == nil || profile == nil {
		return
	}
	if inflation, err := g.Params.InflationAssumption(profile.ID); err != nil {
		g.Logger.Warnf("parameter source inflation lookup failed for %s: %v", profile.ID, err)
	} else if !inflation.IsZero() {
		sp.InflationAssumption = inflation
	}
	returns, err := g.Params.ReturnAssumptions(profile.ID)
	if err != nil {
		g.Logger.Warnf("parameter source return lookup failed for %s: %v", profile.ID, err)
		return
	}
	for assetClass, r := range returns {
		if sp.MarketReturns == nil {
			sp.MarketReturns = make(map[string]decimal.Decimal)
		}
		sp.MarketReturns[assetClass] = r
	}
}

// SaveScenario stores a result bundle under name in the configured
// repository.
func (g *Generator) SaveScenario(name string, result *domain.ScenarioResult) error {
	if g.Store == nil {
		return fmt.Errorf("no scenario store configured")
	}
	return g.Store.Put(name, result)
}

// LoadScenario retrieves a previously saved result bundle. Loading a name
// that was never saved returns ErrScenarioNotFound.
func (g *Generator) LoadScenario(name string) (*domain.ScenarioResult, error) {
	if g.Store == nil {
		return nil, fmt.Errorf("no scenario store configured")
	}
	return g.Store.Get(name)
}

package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Category identifies one of the dashboard metric categories.
	Category string

	// CellClass is the display classification attached to a rendered cell.
	CellClass string

	// Direction is the sign of a change between a current value and its baseline.
	Direction string

	// Tier buckets a tech-debt reduction percentage.
	Tier string

	// Origin records where a category's dataset came from in a load cycle.
	Origin string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All metric categories supported.
const (
	IncidentsCategory Category = "incidents"
	TechDebtCategory  Category = "tech_debt"
	CycleTimeCategory Category = "cycle_time"
	LeadTimeCategory  Category = "lead_time"
)

// Cell classes. Favorable renders green, unfavorable red.
const (
	Favorable     CellClass = "favorable"
	Unfavorable   CellClass = "unfavorable"
	Neutral       CellClass = "neutral"
	NotApplicable CellClass = "not-applicable"
)

// Trend directions.
const (
	Higher    Direction = "higher"
	Lower     Direction = "lower"
	Unchanged Direction = "neutral"
)

// Reduction tiers, best first. NoTier marks an absent percentage.
const (
	BestTier     Tier = "best"
	GoodTier     Tier = "good"
	MarginalTier Tier = "marginal"
	PoorTier     Tier = "poor"
	NoTier       Tier = ""
)

// Dataset origins.
const (
	RemoteOrigin   Origin = "remote"
	FallbackOrigin Origin = "fallback"
)

// AllCategories lists every category in dashboard display order.
var AllCategories = []Category{IncidentsCategory, TechDebtCategory, CycleTimeCategory, LeadTimeCategory}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCategories lists all valid categories.
var ValidCategories = map[Category]struct{}{
	IncidentsCategory: {},
	TechDebtCategory:  {},
	CycleTimeCategory: {},
	LeadTimeCategory:  {},
}

// CategoryFiles maps each category to the document name it is loaded from.
var CategoryFiles = map[Category]string{
	IncidentsCategory: "incidents.json",
	TechDebtCategory:  "tech_debt.json",
	CycleTimeCategory: "cycle_time.json",
	LeadTimeCategory:  "lead_time.json",
}

// CategoryTitles holds the display title per category.
var CategoryTitles = map[Category]string{
	IncidentsCategory: "Incidents",
	TechDebtCategory:  "Tech Debt",
	CycleTimeCategory: "Cycle Time",
	LeadTimeCategory:  "Lead Time",
}

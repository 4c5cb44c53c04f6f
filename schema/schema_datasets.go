package schema

import (
	"slices"
	"time"
)

// DefaultTechDebtGoal is the reduction goal used when a dataset does not declare one.
const DefaultTechDebtGoal = 20.0

// LegacyScopeKey is the scope key under which a single-dataset lead time payload is exposed.
const LegacyScopeKey = "all"

// IncidentsDataset is the incidents document: per-team incident and release counts by period.
type IncidentsDataset struct {
	GeneratedAt    string         `json:"generated_at,omitempty"`
	BaselinePeriod string         `json:"baseline_period,omitempty"` // Reference period for ratio coloring
	DefaultPeriod  string         `json:"default_period,omitempty"`  // Detail partition shown first
	Periods        []string       `json:"periods,omitempty"`         // Optional explicit period order
	Teams          []IncidentTeam `json:"teams"`
}

// IncidentTeam holds one team's incident counters.
type IncidentTeam struct {
	Name    string                    `json:"name"`
	Manager string                    `json:"manager"`
	Periods map[string]IncidentCounts `json:"periods"`
	Links   []string                  `json:"links,omitempty"` // Incident issue keys
}

// IncidentCounts are the raw counters for one team and period.
type IncidentCounts struct {
	IncidentCount *int `json:"incident_count"`
	ReleaseCount  *int `json:"release_count"`
}

// QuarterRange names a reporting period and its [start, end) dates (YYYY-MM-DD).
type QuarterRange struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// TechDebtDataset is the tech debt document.
type TechDebtDataset struct {
	GeneratedAt   string         `json:"generated_at,omitempty"`
	GoalPercent   *float64       `json:"goal_percent,omitempty"`
	DefaultPeriod string         `json:"default_period,omitempty"`
	Quarters      []QuarterRange `json:"quarters,omitempty"`    // Date ranges used for issue tracker links
	IssueTypes    []string       `json:"issue_types,omitempty"` // Issue type filter for links
	Teams         []TechDebtTeam `json:"teams"`
}

// Goal returns the declared reduction goal or DefaultTechDebtGoal.
func (d *TechDebtDataset) Goal() float64 {
	if d == nil || d.GoalPercent == nil {
		return DefaultTechDebtGoal
	}
	return *d.GoalPercent
}

// Quarter looks up the date range declared for a period key.
func (d *TechDebtDataset) Quarter(name string) (QuarterRange, bool) {
	if d == nil {
		return QuarterRange{}, false
	}
	for _, q := range d.Quarters {
		if q.Name == name {
			return q, true
		}
	}
	return QuarterRange{}, false
}

// TechDebtTeam holds one team's tech debt counters.
type TechDebtTeam struct {
	Name     string                    `json:"name"`
	Manager  string                    `json:"manager"`
	EpicKeys []string                  `json:"epic_keys"`
	Status   string                    `json:"status"`
	Periods  map[string]TechDebtCounts `json:"periods"`
}

// TechDebtCounts are the raw counters for one team and period.
type TechDebtCounts struct {
	StartCount   *int     `json:"start_count"`
	ReducedCount *int     `json:"reduced_count"`
	Percent      *float64 `json:"percent"`
	EndCount     *int     `json:"end_count,omitempty"`     // Still open when the period ended
	CreatedCount *int     `json:"created_count,omitempty"` // Opened during the period
}

// CycleTimeDataset is the cycle time document: per-team duration strings keyed by month.
type CycleTimeDataset struct {
	GeneratedAt string          `json:"generated_at,omitempty"`
	Months      []string        `json:"months,omitempty"`
	Baseline    *BaselineWindow `json:"baseline,omitempty"`
	Teams       []CycleTimeTeam `json:"teams"`
}

// BaselineWindow is the declared set of months that form the cycle time baseline.
type BaselineWindow struct {
	Label  string   `json:"label"`
	Months []string `json:"months"`
}

// CycleTimeTeam holds one team's monthly cycle times as "Xd Yh Zm" strings.
type CycleTimeTeam struct {
	Name    string                     `json:"name"`
	Manager string                     `json:"manager"`
	Monthly map[string]string          `json:"monthly"`
	Stages  map[string]CycleTimeStages `json:"stages,omitempty"` // Keyed by month
}

// CycleTimeStages splits a month's cycle time into the median time of each delivery stage.
type CycleTimeStages struct {
	Coding string `json:"coding,omitempty"` // First commit to pull request
	Pickup string `json:"pickup,omitempty"` // Pull request to first review
	Review string `json:"review,omitempty"` // First review to merge
	Deploy string `json:"deploy,omitempty"` // Merge to production
}

// Durations returns the stage texts in display order.
func (s CycleTimeStages) Durations() []string {
	return []string{s.Coding, s.Pickup, s.Review, s.Deploy}
}

// LeadTimeEpic is a single delivered epic with its lead time.
type LeadTimeEpic struct {
	EpicKey          string `json:"epic_key"`
	Summary          string `json:"summary"`
	Status           string `json:"status,omitempty"`
	TechTeam         string `json:"tech_team,omitempty"`
	LeadTimeStart    string `json:"lead_time_start,omitempty"`
	LeadTimeEnd      string `json:"lead_time_end,omitempty"`
	LeadTimeDays     *int   `json:"lead_time_days"`
	LeadTimeReadable string `json:"lead_time_readable,omitempty"`
}

// LeadTimeSummary holds aggregate lead time statistics in days.
type LeadTimeSummary struct {
	TotalEpics         int      `json:"total_epics"`
	EpicsWithLeadTime  int      `json:"epics_with_lead_time"`
	AvgLeadTimeDays    *float64 `json:"avg_lead_time_days"`
	MedianLeadTimeDays *float64 `json:"median_lead_time_days"`
	MinLeadTimeDays    *int     `json:"min_lead_time_days"`
	MaxLeadTimeDays    *int     `json:"max_lead_time_days"`
}

// LeadTimeScope is one lead time dataset (a scope of epics).
type LeadTimeScope struct {
	Name      string                    `json:"name,omitempty"`
	Summary   *LeadTimeSummary          `json:"summary,omitempty"`
	ByQuarter map[string][]LeadTimeEpic `json:"by_quarter,omitempty"`
	Epics     []LeadTimeEpic            `json:"epics"`
}

// LeadTimeDataset is either a LegacyLeadTime or a MultiScopeLeadTime.
// The variant is resolved once when the document is decoded.
type LeadTimeDataset interface {
	ScopeKeys() []string
	Scope(key string) (LeadTimeScope, bool)
	DeclaredDefault() string
	ScopeLabel(key string) string
	leadTimeVariant()
}

// LegacyLeadTime is the single-dataset shape { epics, summary, by_quarter }.
type LegacyLeadTime struct {
	LeadTimeScope
}

// ScopeKeys returns the single legacy scope key.
func (l *LegacyLeadTime) ScopeKeys() []string { return []string{LegacyScopeKey} }

// Scope returns the dataset for LegacyScopeKey.
func (l *LegacyLeadTime) Scope(key string) (LeadTimeScope, bool) {
	if key != LegacyScopeKey {
		return LeadTimeScope{}, false
	}
	return l.LeadTimeScope, true
}

// DeclaredDefault always names the only scope.
func (l *LegacyLeadTime) DeclaredDefault() string { return LegacyScopeKey }

// ScopeLabel returns the dataset name or "All".
func (l *LegacyLeadTime) ScopeLabel(string) string {
	if l.Name != "" {
		return l.Name
	}
	return "All"
}

func (l *LegacyLeadTime) leadTimeVariant() {}

// MultiScopeLeadTime is the shape { datasets: {scope: {...}}, default_scope }.
type MultiScopeLeadTime struct {
	GeneratedAt string                   `json:"generated_at,omitempty"`
	Default     string                   `json:"default_scope,omitempty"`
	Scopes      []string                 `json:"scopes,omitempty"`
	Labels      map[string]string        `json:"scope_labels,omitempty"`
	Datasets    map[string]LeadTimeScope `json:"datasets"`
}

// ScopeKeys returns the declared scope order, or the sorted dataset keys.
func (m *MultiScopeLeadTime) ScopeKeys() []string {
	var keys []string
	for _, k := range m.Scopes {
		if _, ok := m.Datasets[k]; ok {
			keys = append(keys, k)
		}
	}
	for k := range m.Datasets {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	if len(m.Scopes) == 0 {
		slices.Sort(keys)
	}
	return keys
}

// Scope returns the dataset for key.
func (m *MultiScopeLeadTime) Scope(key string) (LeadTimeScope, bool) {
	s, ok := m.Datasets[key]
	return s, ok
}

// DeclaredDefault returns default_scope as written in the document.
func (m *MultiScopeLeadTime) DeclaredDefault() string { return m.Default }

// ScopeLabel prefers scope_labels, then the dataset name, then the key.
func (m *MultiScopeLeadTime) ScopeLabel(key string) string {
	if l, ok := m.Labels[key]; ok && l != "" {
		return l
	}
	if s, ok := m.Datasets[key]; ok && s.Name != "" {
		return s.Name
	}
	return key
}

func (m *MultiScopeLeadTime) leadTimeVariant() {}

// Snapshot is the immutable set of datasets produced by one load cycle.
type Snapshot struct {
	ID        string              `json:"id"`
	LoadedAt  time.Time           `json:"loaded_at"`
	Incidents *IncidentsDataset   `json:"incidents,omitempty"`
	TechDebt  *TechDebtDataset    `json:"tech_debt,omitempty"`
	CycleTime *CycleTimeDataset   `json:"cycle_time,omitempty"`
	LeadTime  LeadTimeDataset     `json:"-"`
	Origins   map[Category]Origin `json:"origins"`
}

package datasource

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/schema"
	"golang.org/x/sync/errgroup"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

// errNoSource marks categories loaded without a configured source.
var errNoSource = errors.New("no source configured")

// Fallback returns the built-in document of a category.
func Fallback(category schema.Category) ([]byte, error) {
	name, ok := schema.CategoryFiles[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return fallbackFS.ReadFile("fallback/" + name)
}

// slot holds one category's decoded dataset. Each loader goroutine owns exactly one slot.
type slot struct {
	incidents *schema.IncidentsDataset
	techDebt  *schema.TechDebtDataset
	cycleTime *schema.CycleTimeDataset
	leadTime  schema.LeadTimeDataset
	origin    schema.Origin
}

func (s *slot) decode(category schema.Category, data []byte) error {
	var err error
	switch category {
	case schema.IncidentsCategory:
		s.incidents, err = DecodeIncidents(data)
	case schema.TechDebtCategory:
		s.techDebt, err = DecodeTechDebt(data)
	case schema.CycleTimeCategory:
		s.cycleTime, err = DecodeCycleTime(data)
	case schema.LeadTimeCategory:
		s.leadTime, err = DecodeLeadTime(data)
	default:
		err = fmt.Errorf("unknown category %q", category)
	}
	return err
}

// loadCategory fetches and decodes one category, substituting the built-in
// dataset when the source fails or returns something unreadable. It only
// returns an error when the built-in dataset itself cannot be decoded.
func loadCategory(ctx context.Context, src contract.Source, category schema.Category) (slot, error) {
	var s slot
	err := errNoSource
	if src != nil {
		var data []byte
		data, err = src.Fetch(ctx, category)
		if err == nil {
			err = s.decode(category, data)
		}
	}
	if err == nil {
		s.origin = schema.RemoteOrigin
		slog.Debug("Loaded category", "category", category, "source", src.Location())
		return s, nil
	}

	if errors.Is(err, errNoSource) {
		slog.Debug("Using fallback data", "category", category)
	} else {
		slog.Warn("Falling back to built-in data", "category", category, "error", err)
	}
	s = slot{origin: schema.FallbackOrigin}
	data, ferr := Fallback(category)
	if ferr == nil {
		ferr = s.decode(category, data)
	}
	if ferr != nil {
		return s, fmt.Errorf("fallback data for %s is unreadable: %w", category, ferr)
	}
	return s, nil
}

// Load fetches every category concurrently and assembles a snapshot.
// A failing category never blocks or cancels the others; it degrades to its
// built-in dataset and is marked with FallbackOrigin.
func Load(ctx context.Context, src contract.Source) *schema.Snapshot {
	slots := make([]slot, len(schema.AllCategories))

	// A plain Group: one category failing must not cancel its siblings.
	var g errgroup.Group
	for i, category := range schema.AllCategories {
		g.Go(func() error {
			var err error
			slots[i], err = loadCategory(ctx, src, category)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		// Only reachable with a broken build; the category renders empty.
		slog.Error("Cannot load category", "error", err)
	}

	snap := &schema.Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Origins:  make(map[schema.Category]schema.Origin, len(slots)),
	}
	for i, category := range schema.AllCategories {
		s := slots[i]
		snap.Origins[category] = s.origin
		switch category {
		case schema.IncidentsCategory:
			snap.Incidents = s.incidents
		case schema.TechDebtCategory:
			snap.TechDebt = s.techDebt
		case schema.CycleTimeCategory:
			snap.CycleTime = s.cycleTime
		case schema.LeadTimeCategory:
			snap.LeadTime = s.leadTime
		}
	}
	return snap
}

// LoadFallback builds a snapshot from the built-in datasets only.
func LoadFallback(ctx context.Context) *schema.Snapshot {
	return Load(ctx, nil)
}

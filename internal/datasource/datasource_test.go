package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const minimalIncidents = `{"teams":[{"name":"Search","manager":"Ana Costa","periods":{"2024-Q1":{"incident_count":2,"release_count":20}}}]}`

func TestFallbackDocumentsDecode(t *testing.T) {
	snap := LoadFallback(context.Background())

	require.NotNil(t, snap.Incidents)
	require.NotNil(t, snap.TechDebt)
	require.NotNil(t, snap.CycleTime)
	require.NotNil(t, snap.LeadTime)
	for _, c := range schema.AllCategories {
		assert.Equal(t, schema.FallbackOrigin, snap.Origins[c], string(c))
	}

	_, err := uuid.Parse(snap.ID)
	assert.NoError(t, err)
	assert.False(t, snap.LoadedAt.IsZero())

	_, multi := snap.LeadTime.(*schema.MultiScopeLeadTime)
	assert.True(t, multi)
}

func TestLoadWithMockSource(t *testing.T) {
	ctx := context.Background()
	src := &contract.MockSource{}
	src.On("Fetch", mock.Anything, schema.IncidentsCategory).Return([]byte(minimalIncidents), nil)
	src.On("Fetch", mock.Anything, schema.TechDebtCategory).Return(nil, errors.New("connection refused"))
	src.On("Fetch", mock.Anything, schema.CycleTimeCategory).Return([]byte("{not json"), nil)
	src.On("Fetch", mock.Anything, schema.LeadTimeCategory).Return([]byte(`{"epics":[]}`), nil)

	snap := Load(ctx, src)
	src.AssertExpectations(t)

	assert.Equal(t, schema.RemoteOrigin, snap.Origins[schema.IncidentsCategory])
	assert.Equal(t, schema.FallbackOrigin, snap.Origins[schema.TechDebtCategory])
	assert.Equal(t, schema.FallbackOrigin, snap.Origins[schema.CycleTimeCategory])
	assert.Equal(t, schema.RemoteOrigin, snap.Origins[schema.LeadTimeCategory])

	require.Len(t, snap.Incidents.Teams, 1)
	assert.Equal(t, "Search", snap.Incidents.Teams[0].Name)
	assert.NotEmpty(t, snap.TechDebt.Teams, "fallback tech debt is used")
	_, legacy := snap.LeadTime.(*schema.LegacyLeadTime)
	assert.True(t, legacy)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incidents.json"), []byte(minimalIncidents), 0o600))

	src := NewFileSource(dir)
	data, err := src.Fetch(context.Background(), schema.IncidentsCategory)
	require.NoError(t, err)
	assert.JSONEq(t, minimalIncidents, string(data))

	_, err = src.Fetch(context.Background(), schema.TechDebtCategory)
	assert.Error(t, err)

	_, err = src.Fetch(context.Background(), schema.Category("unknown"))
	assert.Error(t, err)

	snap := Load(context.Background(), src)
	assert.Equal(t, schema.RemoteOrigin, snap.Origins[schema.IncidentsCategory])
	assert.Equal(t, schema.FallbackOrigin, snap.Origins[schema.LeadTimeCategory])
}

func TestHTTPSource(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/kpi/incidents.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(minimalIncidents))
		case "/kpi/lead_time.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL+"/kpi", 5*time.Second)
	assert.Equal(t, server.URL+"/kpi", src.Location())

	data, err := src.Fetch(context.Background(), schema.IncidentsCategory)
	require.NoError(t, err)
	assert.JSONEq(t, minimalIncidents, string(data))

	_, err = src.Fetch(context.Background(), schema.LeadTimeCategory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	snap := Load(context.Background(), src)
	assert.Equal(t, schema.RemoteOrigin, snap.Origins[schema.IncidentsCategory])
	assert.Equal(t, schema.FallbackOrigin, snap.Origins[schema.TechDebtCategory])
	assert.Equal(t, schema.FallbackOrigin, snap.Origins[schema.LeadTimeCategory])
	assert.Equal(t, int32(6), hits.Load())
}

func TestNewSource(t *testing.T) {
	assert.Nil(t, NewSource(&contract.Config{}))

	_, isFile := NewSource(&contract.Config{Source: "data"}).(*FileSource)
	assert.True(t, isFile)

	_, isHTTP := NewSource(&contract.Config{Source: "https://metrics.example.com", Remote: true}).(*HTTPSource)
	assert.True(t, isHTTP)
}

func TestDecodeLeadTime(t *testing.T) {
	t.Run("multi scope", func(t *testing.T) {
		ds, err := DecodeLeadTime([]byte(`{"default_scope":"web","datasets":{"web":{"epics":[]},"api":{"epics":[]}}}`))
		require.NoError(t, err)
		assert.Equal(t, "web", ds.DeclaredDefault())
		assert.Equal(t, []string{"api", "web"}, ds.ScopeKeys())
	})

	t.Run("legacy", func(t *testing.T) {
		ds, err := DecodeLeadTime([]byte(`{"epics":[{"epic_key":"PAY-1","summary":"Ledger","lead_time_days":12}],"summary":{"total_epics":1}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{schema.LegacyScopeKey}, ds.ScopeKeys())
		scope, ok := ds.Scope(schema.LegacyScopeKey)
		require.True(t, ok)
		require.Len(t, scope.Epics, 1)
		assert.Equal(t, 12, *scope.Epics[0].LeadTimeDays)
		require.NotNil(t, scope.Summary)
	})

	t.Run("legacy by quarter only", func(t *testing.T) {
		ds, err := DecodeLeadTime([]byte(`{"by_quarter":{"FY25 Q1":[{"epic_key":"PAY-1"}]}}`))
		require.NoError(t, err)
		scope, _ := ds.Scope(schema.LegacyScopeKey)
		assert.Len(t, scope.ByQuarter["FY25 Q1"], 1)
	})

	for name, doc := range map[string]string{
		"empty":          "",
		"null":           "null",
		"array":          "[]",
		"unrelated":      `{"teams":[]}`,
		"empty datasets": `{"datasets":{}}`,
	} {
		t.Run("invalid "+name, func(t *testing.T) {
			_, err := DecodeLeadTime([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeRequiresTeams(t *testing.T) {
	_, err := DecodeIncidents([]byte(`{}`))
	assert.Error(t, err)
	_, err = DecodeTechDebt([]byte(`{"goal_percent":20}`))
	assert.Error(t, err)
	_, err = DecodeCycleTime([]byte(`  `))
	assert.ErrorIs(t, err, errEmptyDocument)

	ds, err := DecodeTechDebt([]byte(`{"teams":[]}`))
	require.NoError(t, err)
	assert.InDelta(t, schema.DefaultTechDebtGoal, ds.Goal(), 1e-9)
}

func TestLoadCategoryErrors(t *testing.T) {
	ctx := context.Background()

	src := &contract.MockSource{}
	src.On("Fetch", mock.Anything, schema.CycleTimeCategory).Return([]byte(""), nil)
	s, err := loadCategory(ctx, src, schema.CycleTimeCategory)
	require.NoError(t, err, "a broken source degrades without an error")
	assert.Equal(t, schema.FallbackOrigin, s.origin)
	assert.NotNil(t, s.cycleTime)

	_, err = loadCategory(ctx, nil, schema.Category("velocity"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback data for velocity is unreadable")
}

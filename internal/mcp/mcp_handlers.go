package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/kpidash/core"
	"github.com/huangsam/kpidash/core/algo"
	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/internal/jira"
	"github.com/huangsam/kpidash/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

type dashboardResult struct {
	Dashboard schema.Dashboard `json:"dashboard"`
	View      schema.ViewState `json:"view"`
}

type durationResult struct {
	Minutes float64 `json:"minutes"`
	Long    string  `json:"long"`
	Short   string  `json:"short"`
}

type searchLinkResult struct {
	JQL string `json:"jql"`
	URL string `json:"url,omitempty"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Partition = request.GetString("partition", "")
	cfg.Scope = request.GetString("scope", "")

	categories := schema.AllCategories
	if c := request.GetString("category", allCategories); c != allCategories {
		if _, ok := schema.ValidCategories[schema.Category(c)]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown category %q", c)), nil
		}
		categories = []schema.Category{schema.Category(c)}
	}

	dash, view, err := core.GetDashboardResults(ctx, cfg, categories...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering failed: %v", err)), nil
	}
	return jsonResult(dashboardResult{Dashboard: dash, View: view})
}

func (h *toolHandler) handleParseDuration(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	minutes := float64(algo.ParseDuration(text))
	return jsonResult(durationResult{
		Minutes: minutes,
		Long:    algo.FormatDurationLong(minutes),
		Short:   algo.FormatDurationShort(minutes),
	})
}

func (h *toolHandler) handleFormatDuration(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := request.GetArguments()["minutes"]; !ok {
		return mcp.NewToolResultError("minutes is required"), nil
	}
	minutes := request.GetFloat("minutes", 0)
	return jsonResult(durationResult{
		Minutes: minutes,
		Long:    algo.FormatDurationLong(minutes),
		Short:   algo.FormatDurationShort(minutes),
	})
}

func validDate(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required for this mode", name)
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return fmt.Errorf("invalid %s date %q (expected YYYY-MM-DD)", name, value)
	}
	return nil
}

func (h *toolHandler) handleBuildSearchLink(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := jira.Query{
		Keys:  jira.ParseKeys(request.GetString("keys", "")),
		Mode:  jira.Mode(request.GetString("mode", "")),
		Start: request.GetString("start", ""),
		End:   request.GetString("end", ""),
	}
	if len(q.Keys) == 0 {
		return mcp.NewToolResultError("keys is required"), nil
	}
	if _, ok := jira.ValidModes[q.Mode]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q", q.Mode)), nil
	}

	var err error
	switch q.Mode {
	case jira.ExistedAtStart:
		err = validDate("start", q.Start)
	case jira.ResolvedInRange, jira.CreatedInRange:
		if err = validDate("start", q.Start); err == nil {
			err = validDate("end", q.End)
		}
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := searchLinkResult{JQL: q.JQL()}
	if h.baseCfg.JiraURL != "" {
		res.URL = jira.SearchURL(h.baseCfg.JiraURL, res.JQL)
	}
	return jsonResult(res)
}

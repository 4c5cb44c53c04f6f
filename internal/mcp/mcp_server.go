// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/kpidash/internal/contract"
	"github.com/huangsam/kpidash/internal/jira"
	"github.com/huangsam/kpidash/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// allCategories selects the whole dashboard in get_dashboard.
const allCategories = "all"

// NewMCPServer initializes and configures the KPI dashboard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"KPI Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	categories := []string{allCategories}
	for _, c := range schema.AllCategories {
		categories = append(categories, string(c))
	}

	// --- 1. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Render engineering KPI tables (incidents, tech debt, cycle time, lead time) with trend classes and issue links."),
		mcp.WithString("category", mcp.Description("Category to render. Defaults to 'all'."), mcp.Enum(categories...)),
		mcp.WithString("partition", mcp.Description("Period to show in detail tables (e.g., 'FY25 Q2'). Defaults to the latest.")),
		mcp.WithString("scope", mcp.Description("Lead time scope key. Defaults to the declared default scope.")),
	), h.handleGetDashboard)

	// --- 2. Tool: parse_duration ---
	s.AddTool(mcp.NewTool("parse_duration",
		mcp.WithDescription("Convert a duration like '7 d 15 h 9 m' into minutes. Unrecognized text yields 0."),
		mcp.WithString("text", mcp.Description("Duration text with optional day, hour and minute parts."), mcp.Required()),
	), h.handleParseDuration)

	// --- 3. Tool: format_duration ---
	s.AddTool(mcp.NewTool("format_duration",
		mcp.WithDescription("Format a number of minutes in the long and short duration forms."),
		mcp.WithNumber("minutes", mcp.Description("Duration in minutes."), mcp.Required()),
	), h.handleFormatDuration)

	// --- 4. Tool: build_search_link ---
	s.AddTool(mcp.NewTool("build_search_link",
		mcp.WithDescription("Build the issue search expression and link for issues under a set of epics."),
		mcp.WithString("keys", mcp.Description("Comma separated epic keys."), mcp.Required()),
		mcp.WithString("mode", mcp.Description("Date constraint of the search."), mcp.Enum(string(jira.ExistedAtStart), string(jira.ResolvedInRange), string(jira.CreatedInRange), string(jira.StillOpen)), mcp.Required()),
		mcp.WithString("start", mcp.Description("Period start date (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Period end date (YYYY-MM-DD).")),
	), h.handleBuildSearchLink)

	return s
}

// StartMCPServer starts the KPI dashboard MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}

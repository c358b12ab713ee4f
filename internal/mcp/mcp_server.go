// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starscope/starscope/internal/contract"
)

// NewMCPServer initializes and configures the Starscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Starscope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		provider: provider,
		mgr:      mgr,
	}

	// --- 1. Tool: get_star_history ---
	s.AddTool(mcp.NewTool("get_star_history",
		mcp.WithDescription("Reconstruct the weekly star history of a GitHub repository."),
		mcp.WithString("repo", mcp.Description("Repository identifier as owner/name."), mcp.Required()),
		mcp.WithString("as_of", mcp.Description("Reconstruction horizon, RFC3339 or relative (e.g. '2 years ago'). Defaults to now.")),
		mcp.WithNumber("max_pages", mcp.Description("Cap on stargazer pages fetched per repository.")),
	), h.handleGetStarHistory)

	// --- 2. Tool: get_repo_metrics ---
	s.AddTool(mcp.NewTool("get_repo_metrics",
		mcp.WithDescription("Derive growth metrics (velocity, consistency, momentum, milestones) for a GitHub repository."),
		mcp.WithString("repo", mcp.Description("Repository identifier as owner/name."), mcp.Required()),
		mcp.WithString("as_of", mcp.Description("Reconstruction horizon, RFC3339 or relative. Defaults to now.")),
	), h.handleGetRepoMetrics)

	// --- 3. Tool: compare_repos ---
	s.AddTool(mcp.NewTool("compare_repos",
		mcp.WithDescription("Compare the growth of two GitHub repositories head to head."),
		mcp.WithString("first", mcp.Description("First repository identifier as owner/name."), mcp.Required()),
		mcp.WithString("second", mcp.Description("Second repository identifier as owner/name."), mcp.Required()),
		mcp.WithString("as_of", mcp.Description("Reconstruction horizon, RFC3339 or relative. Defaults to now.")),
	), h.handleCompareRepos)

	return s
}

// StartMCPServer starts the Starscope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, provider, mgr)
	return server.ServeStdio(s)
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starscope/starscope/core"
	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	provider contract.Provider
	mgr      contract.CacheManager
}

func (h *toolHandler) handleGetStarHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := request.GetString("repo", "")
	if _, _, err := schema.SplitIdentifier(repo); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid repository: %v", err)), nil
	}

	cfg := h.baseCfg.CloneWithIdentifier(repo)
	if err := applyAsOf(cfg, request.GetString("as_of", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid as_of: %v", err)), nil
	}
	if p := request.GetInt("max_pages", 0); p > 0 && p <= contract.MaxPagesCeiling {
		cfg.MaxPages = p
	}

	results, err := core.GetHistoryResults(contract.WithSuppressHeader(ctx), cfg, h.provider, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reconstruction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results[0], "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRepoMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := request.GetString("repo", "")
	if _, _, err := schema.SplitIdentifier(repo); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid repository: %v", err)), nil
	}

	cfg := h.baseCfg.CloneWithIdentifier(repo)
	if err := applyAsOf(cfg, request.GetString("as_of", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid as_of: %v", err)), nil
	}

	metrics, err := core.GetMetricsResult(contract.WithSuppressHeader(ctx), cfg, h.provider, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("metrics derivation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(metrics, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareRepos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	first := request.GetString("first", "")
	second := request.GetString("second", "")
	for _, repo := range []string{first, second} {
		if _, _, err := schema.SplitIdentifier(repo); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid repository: %v", err)), nil
		}
	}

	cfg := h.baseCfg.Clone()
	cfg.Identifiers = []string{first, second}
	if err := applyAsOf(cfg, request.GetString("as_of", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid as_of: %v", err)), nil
	}

	comparison, err := core.GetCompareResult(contract.WithSuppressHeader(ctx), cfg, h.provider, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(comparison, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// applyAsOf overrides the reconstruction horizon from a tool argument,
// accepting RFC3339 or the relative form ("2 years ago"). Empty input
// keeps the base configuration's horizon.
func applyAsOf(cfg *contract.Config, raw string) error {
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(contract.DateTimeFormat, raw); err == nil {
		cfg.AsOf = parsed.UTC()
		return nil
	}
	parsed, err := contract.ParseRelativeTime(raw, time.Now().UTC())
	if err != nil {
		return err
	}
	cfg.AsOf = parsed
	return nil
}

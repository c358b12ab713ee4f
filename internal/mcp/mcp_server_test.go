package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/internal/ghclient"
	"github.com/starscope/starscope/internal/iocache"
	mcp_internal "github.com/starscope/starscope/internal/mcp"
	"github.com/starscope/starscope/schema"
)

func baseTestConfig() *contract.Config {
	return &contract.Config{
		AsOf:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		MaxPages:    schema.DefaultMaxPages,
		ResultLimit: schema.DefaultResultLimit,
		Precision:   schema.DefaultPrecision,
		Output:      schema.OutputJSON,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	provider := &ghclient.MockProvider{}
	mgr := &iocache.MockCacheManager{}
	s := mcp_internal.NewMCPServer(baseTestConfig(), provider, mgr)

	ctx := context.Background()

	t.Run("get_star_history invalid repo", func(t *testing.T) {
		tool := s.GetTool("get_star_history")
		require.NotNil(t, tool, "Tool get_star_history should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_star_history",
				Arguments: map[string]any{
					"repo": "not-an-identifier",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid repository")
	})

	t.Run("get_repo_metrics invalid as_of", func(t *testing.T) {
		tool := s.GetTool("get_repo_metrics")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_repo_metrics",
				Arguments: map[string]any{
					"repo":  "golang/go",
					"as_of": "whenever",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid as_of")
	})

	t.Run("compare_repos missing second repo", func(t *testing.T) {
		tool := s.GetTool("compare_repos")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "compare_repos",
				Arguments: map[string]any{
					"first": "golang/go",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid repository")
	})
}

func TestMCPServerGetStarHistory(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := &schema.RepoSnapshot{
		Identifier: "golang/go",
		CreatedAt:  created,
		Stars:      3,
		StargazerEvents: []schema.StargazerEvent{
			{StarredAt: created.AddDate(0, 0, 1)},
			{StarredAt: created.AddDate(0, 0, 20)},
			{StarredAt: created.AddDate(0, 0, 40)},
		},
	}

	provider := &ghclient.MockProvider{}
	provider.On("FetchSnapshot", mock.Anything, "golang/go").Return(snap, nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(nil)
	mgr.On("GetRunStore").Return(nil)

	s := mcp_internal.NewMCPServer(baseTestConfig(), provider, mgr)

	tool := s.GetTool("get_star_history")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "get_star_history",
			Arguments: map[string]any{
				"repo": "golang/go",
			},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var result schema.HistoryResult
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &result))
	assert.Equal(t, "golang/go", result.Identifier)
	assert.Equal(t, schema.MethodExact, result.Method)
	assert.Equal(t, 3, result.Stars)
	assert.NotEmpty(t, result.Points)
}

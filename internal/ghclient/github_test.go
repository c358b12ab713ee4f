package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New("test-token", 2, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestFetchSnapshotSmallRepo(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/repos/acme/widget":
			fmt.Fprint(w, `{"full_name":"acme/widget","stargazers_count":3,"created_at":"2023-01-10T00:00:00Z"}`)
		case "/repos/acme/widget/stargazers":
			assert.Equal(t, "application/vnd.github.star+json", r.Header.Get("Accept"))
			fmt.Fprint(w, `[{"starred_at":"2023-02-01T00:00:00Z"},{"starred_at":"2023-03-01T00:00:00Z"},{"starred_at":"2023-04-01T00:00:00Z"}]`)
		case "/repos/acme/widget/commits":
			fmt.Fprint(w, `[{"commit":{"committer":{"date":"2023-02-15T00:00:00Z"}}}]`)
		case "/repos/acme/widget/releases":
			fmt.Fprint(w, `[{"published_at":"2023-03-20T00:00:00Z","draft":false},{"published_at":"2023-03-25T00:00:00Z","draft":true}]`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	snap, err := client.FetchSnapshot(context.Background(), "acme/widget")
	assert.NoError(t, err)
	assert.Equal(t, "acme/widget", snap.Identifier)
	assert.Equal(t, 3, snap.Stars)
	assert.Equal(t, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), snap.CreatedAt)
	assert.Len(t, snap.StargazerEvents, 3)
	assert.False(t, snap.StargazersTruncated)

	// Draft releases are dropped, commits kept.
	kinds := map[schema.EventKind]int{}
	for _, ev := range snap.ActivityEvents {
		kinds[ev.Kind]++
	}
	assert.Equal(t, 1, kinds[schema.EventCommit])
	assert.Equal(t, 1, kinds[schema.EventRelease])
}

func TestFetchSnapshotSkipsStargazersAboveCutoff(t *testing.T) {
	var sawStargazers bool
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/big/repo":
			fmt.Fprintf(w, `{"full_name":"big/repo","stargazers_count":%d,"created_at":"2015-01-01T00:00:00Z"}`, schema.ExactPathStarCutoff+1)
		case "/repos/big/repo/stargazers":
			sawStargazers = true
			fmt.Fprint(w, `[]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	})

	snap, err := client.FetchSnapshot(context.Background(), "big/repo")
	assert.NoError(t, err)
	assert.False(t, sawStargazers)
	assert.Empty(t, snap.StargazerEvents)
}

func TestFetchSnapshotTruncation(t *testing.T) {
	// maxPages is 2 in the test client, serve full pages forever.
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widget":
			fmt.Fprint(w, `{"full_name":"acme/widget","stargazers_count":500,"created_at":"2023-01-10T00:00:00Z"}`)
		case "/repos/acme/widget/stargazers":
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			assert.LessOrEqual(t, page, 2)
			w.Write([]byte("["))
			for i := range 100 {
				if i > 0 {
					w.Write([]byte(","))
				}
				fmt.Fprint(w, `{"starred_at":"2023-02-01T00:00:00Z"}`)
			}
			w.Write([]byte("]"))
		default:
			fmt.Fprint(w, `[]`)
		}
	})

	snap, err := client.FetchSnapshot(context.Background(), "acme/widget")
	assert.NoError(t, err)
	assert.True(t, snap.StargazersTruncated)
	assert.Len(t, snap.StargazerEvents, 200)
}

func TestFetchSnapshotErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.FetchSnapshot(context.Background(), "ghost/repo")
		assert.ErrorIs(t, err, contract.ErrRepoNotFound)
	})

	t.Run("rate limited via 403", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
		})
		_, err := client.FetchSnapshot(context.Background(), "busy/repo")
		assert.ErrorIs(t, err, contract.ErrRateLimited)
	})

	t.Run("bad identifier", func(t *testing.T) {
		client := New("", 1)
		_, err := client.FetchSnapshot(context.Background(), "not-a-repo")
		assert.Error(t, err)
	})
}

// Package ghclient fetches repository snapshots from the GitHub REST API.
package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100

	// starAcceptHeader asks GitHub to include starred_at in stargazer
	// responses. Without it the endpoint only returns user objects.
	starAcceptHeader = "application/vnd.github.star+json"

	jsonAcceptHeader = "application/vnd.github+json"

	// activityLookbackPages caps commit and release pagination. Activity
	// signals feed an estimate, so a bounded sample is enough.
	activityLookbackPages = 10
)

// Client talks to the GitHub REST API and assembles RepoSnapshot values.
type Client struct {
	baseURL  string
	token    string
	maxPages int
	httpc    *http.Client
}

var _ contract.Provider = &Client{} // Compile-time check

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests and GitHub
// Enterprise deployments.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New builds a Client. An empty token means unauthenticated requests,
// which GitHub throttles aggressively.
func New(token string, maxPages int, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		token:    token,
		maxPages: maxPages,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// repoResponse is the subset of the repository endpoint we care about.
type repoResponse struct {
	FullName        string    `json:"full_name"`
	StargazersCount int       `json:"stargazers_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// stargazerResponse is one element of the stargazers endpoint with the
// star+json media type.
type stargazerResponse struct {
	StarredAt time.Time `json:"starred_at"`
}

// commitResponse is one element of the commits endpoint.
type commitResponse struct {
	Commit struct {
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// releaseResponse is one element of the releases endpoint.
type releaseResponse struct {
	PublishedAt time.Time `json:"published_at"`
	Draft       bool      `json:"draft"`
}

// FetchSnapshot implements the Provider interface. It reads repository
// metadata first, then enumerates stargazers only when the total is small
// enough for that to be worthwhile, and finally samples commit and release
// activity. Activity fetch failures degrade the snapshot instead of
// failing it.
func (c *Client) FetchSnapshot(ctx context.Context, identifier string) (*schema.RepoSnapshot, error) {
	owner, name, err := schema.SplitIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	repo, err := c.fetchRepo(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("fetch repository %s: %w", identifier, err)
	}

	snap := &schema.RepoSnapshot{
		Identifier: identifier,
		CreatedAt:  repo.CreatedAt.UTC(),
		Stars:      repo.StargazersCount,
	}

	if repo.StargazersCount > 0 && repo.StargazersCount <= schema.ExactPathStarCutoff {
		events, truncated, err := c.fetchStargazers(ctx, owner, name)
		if err != nil {
			// Rate limits and not-found are terminal. Anything else just
			// pushes this repository onto the estimation path.
			if errors.Is(err, contract.ErrRateLimited) || errors.Is(err, contract.ErrRepoNotFound) {
				return nil, fmt.Errorf("fetch stargazers %s: %w", identifier, err)
			}
			snap.StargazersTruncated = true
		} else {
			snap.StargazerEvents = events
			snap.StargazersTruncated = truncated
		}
	}

	activity, err := c.fetchActivity(ctx, owner, name)
	if err != nil {
		contract.LogWarn("fetching activity signals", err)
	} else {
		snap.ActivityEvents = activity
	}

	return snap, nil
}

func (c *Client) fetchRepo(ctx context.Context, owner, name string) (*repoResponse, error) {
	var repo repoResponse
	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, name)
	if err := c.getJSON(ctx, endpoint, jsonAcceptHeader, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// fetchStargazers walks the stargazers endpoint until an empty page, the
// page cap, or an error. The second return value reports truncation.
func (c *Client) fetchStargazers(ctx context.Context, owner, name string) ([]schema.StargazerEvent, bool, error) {
	var events []schema.StargazerEvent
	for page := 1; ; page++ {
		if page > c.maxPages {
			return events, true, nil
		}

		endpoint := fmt.Sprintf("%s/repos/%s/%s/stargazers?%s", c.baseURL, owner, name, url.Values{
			"per_page": {fmt.Sprint(perPage)},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		var batch []stargazerResponse
		if err := c.getJSON(ctx, endpoint, starAcceptHeader, &batch); err != nil {
			return nil, false, err
		}
		if len(batch) == 0 {
			return events, false, nil
		}
		for _, sg := range batch {
			events = append(events, schema.StargazerEvent{StarredAt: sg.StarredAt.UTC()})
		}
		if len(batch) < perPage {
			return events, false, nil
		}
	}
}

// fetchActivity samples recent commits and published releases.
func (c *Client) fetchActivity(ctx context.Context, owner, name string) ([]schema.ActivityEvent, error) {
	var events []schema.ActivityEvent

	for page := 1; page <= activityLookbackPages; page++ {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?%s", c.baseURL, owner, name, url.Values{
			"per_page": {fmt.Sprint(perPage)},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		var batch []commitResponse
		if err := c.getJSON(ctx, endpoint, jsonAcceptHeader, &batch); err != nil {
			// Empty repositories answer 409 here, which surfaces as a
			// generic API error. Treat whatever we have as the sample.
			break
		}
		for _, cr := range batch {
			events = append(events, schema.ActivityEvent{
				Timestamp: cr.Commit.Committer.Date.UTC(),
				Kind:      schema.EventCommit,
			})
		}
		if len(batch) < perPage {
			break
		}
	}

	for page := 1; page <= activityLookbackPages; page++ {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/releases?%s", c.baseURL, owner, name, url.Values{
			"per_page": {fmt.Sprint(perPage)},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		var batch []releaseResponse
		if err := c.getJSON(ctx, endpoint, jsonAcceptHeader, &batch); err != nil {
			break
		}
		for _, rel := range batch {
			if rel.Draft || rel.PublishedAt.IsZero() {
				continue
			}
			events = append(events, schema.ActivityEvent{
				Timestamp: rel.PublishedAt.UTC(),
				Kind:      schema.EventRelease,
			})
		}
		if len(batch) < perPage {
			break
		}
	}

	return events, nil
}

// getJSON issues one GET and decodes the response, mapping GitHub's error
// statuses onto the contract sentinels.
func (c *Client) getJSON(ctx context.Context, endpoint, accept string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return contract.ErrRepoNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return contract.ErrRateLimited
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return contract.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github API returned %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/paperwatch/internal/httputil"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// GitHub search base URLs. Declared as vars so tests can substitute an
// httptest server.
var (
	githubSearchRepoBase = "https://api.github.com/search/repositories"
	githubSearchCodeBase = "https://api.github.com/search/code"
)

// searchPageSize caps every search at 5 results; only the first is ever
// used.
const searchPageSize = "5"

// GitHub issues search requests against the GitHub API. Token, when
// present, is sent as a bearer credential; absence degrades to
// unauthenticated requests with lower rate limits.
type GitHub struct {
	Client *httputil.Client
	Token  string
}

func (g *GitHub) header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	if g.Token != "" {
		h.Set("Authorization", "Bearer "+g.Token)
	}
	return h
}

// GitHub search API JSON structures.
type repoSearchResponse struct {
	Items []repoItem `json:"items"`
}

type repoItem struct {
	HTMLURL string `json:"html_url"`
}

type codeSearchResponse struct {
	Items []codeItem `json:"items"`
}

type codeItem struct {
	Repository repoItem `json:"repository"`
}

// searchRepositories runs a repository search ordered by stars descending
// and returns the first hit's URL, or "" when the search came back empty
// or absent.
func (g *GitHub) searchRepositories(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"q":        {query},
		"sort":     {"stars"},
		"order":    {"desc"},
		"per_page": {searchPageSize},
	}
	resp, ok := g.Client.Get(ctx, githubSearchRepoBase, g.header(), params)
	if !ok {
		return "", nil
	}
	defer resp.Body.Close()

	var sr repoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("parsing repository search response: %w", err)
	}
	if len(sr.Items) == 0 {
		return "", nil
	}
	return sr.Items[0].HTMLURL, nil
}

// ReadmeSearchSource looks for the exact quoted paper title in repository
// readmes and descriptions.
type ReadmeSearchSource struct {
	GitHub *GitHub
}

// Name returns the source identifier.
func (s *ReadmeSearchSource) Name() string { return "gh-readme" }

func (s *ReadmeSearchSource) Attempt(ctx context.Context, ref types.Ref) (string, error) {
	if ref.Title == "" {
		return "", nil
	}
	return s.GitHub.searchRepositories(ctx, fmt.Sprintf("%q in:readme,in:description", ref.Title))
}

// IdentifierSearchSource looks for the exact quoted canonical id in
// repository names, readmes, and descriptions.
type IdentifierSearchSource struct {
	GitHub *GitHub
}

// Name returns the source identifier.
func (s *IdentifierSearchSource) Name() string { return "gh-id" }

func (s *IdentifierSearchSource) Attempt(ctx context.Context, ref types.Ref) (string, error) {
	if ref.ID == "" {
		return "", nil
	}
	return s.GitHub.searchRepositories(ctx, fmt.Sprintf("%q in:name,readme,description", ref.ID))
}

// CodeSearchSource searches README file contents for the canonical id and
// returns the owning repository of the top hit.
type CodeSearchSource struct {
	GitHub *GitHub
}

// Name returns the source identifier.
func (s *CodeSearchSource) Name() string { return "gh-code" }

func (s *CodeSearchSource) Attempt(ctx context.Context, ref types.Ref) (string, error) {
	if ref.ID == "" {
		return "", nil
	}
	params := url.Values{
		"q":        {fmt.Sprintf("%q in:file filename:README", ref.ID)},
		"per_page": {searchPageSize},
	}
	resp, ok := s.GitHub.Client.Get(ctx, githubSearchCodeBase, s.GitHub.header(), params)
	if !ok {
		return "", nil
	}
	defer resp.Body.Close()

	var sr codeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("parsing code search response: %w", err)
	}
	if len(sr.Items) == 0 {
		return "", nil
	}
	return sr.Items[0].Repository.HTMLURL, nil
}

// BareField selects which raw field a BareSearchSource queries with.
type BareField int

const (
	BareTitle BareField = iota
	BareID
)

// BareSearchSource is the last-resort generic repository search by raw
// title or raw id text, unquoted and unscoped.
type BareSearchSource struct {
	GitHub *GitHub
	Field  BareField
}

// Name returns the source identifier.
func (s *BareSearchSource) Name() string {
	if s.Field == BareID {
		return "gh-bare-id"
	}
	return "gh-bare-title"
}

func (s *BareSearchSource) Attempt(ctx context.Context, ref types.Ref) (string, error) {
	q := ref.Title
	if s.Field == BareID {
		q = ref.ID
	}
	if q == "" {
		return "", nil
	}
	return s.GitHub.searchRepositories(ctx, q)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/paperwatch/internal/httputil"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// Hub base URLs. Declared as vars so tests can substitute an httptest
// server.
var (
	hubAPIBase  = "https://huggingface.co/api/arxiv"
	hubLinkBase = "https://huggingface.co"
)

// HubSource looks up a paper's associated Hugging Face Hub entries.
// Priority within the response: spaces, then models, then datasets; the
// first entry with a namespaced id wins.
type HubSource struct {
	Client *httputil.Client
}

// Name returns the source identifier.
func (s *HubSource) Name() string { return "hf-hub" }

// Hub repos API JSON structures.
type hubRepos struct {
	Spaces   []hubEntry `json:"spaces"`
	Models   []hubEntry `json:"models"`
	Datasets []hubEntry `json:"datasets"`
}

type hubEntry struct {
	ID string `json:"id"` // namespaced, e.g. "org/name"
}

// Attempt queries the hub repos endpoint for the canonical arXiv id and
// constructs a hub URL from the picked entry's id and category.
func (s *HubSource) Attempt(ctx context.Context, ref types.Ref) (string, error) {
	resp, ok := s.Client.Get(ctx, hubAPIBase+"/"+ref.ID+"/repos", nil, nil)
	if !ok {
		return "", nil
	}
	defer resp.Body.Close()

	var repos hubRepos
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return "", fmt.Errorf("parsing hub response: %w", err)
	}

	groups := []struct {
		category string
		entries  []hubEntry
	}{
		{"spaces", repos.Spaces},
		{"models", repos.Models},
		{"datasets", repos.Datasets},
	}
	for _, g := range groups {
		for _, e := range g.entries {
			if e.ID != "" {
				return fmt.Sprintf("%s/%s/%s", hubLinkBase, g.category, e.ID), nil
			}
		}
	}
	return "", nil
}

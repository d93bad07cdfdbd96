// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve locates public code implementations for papers by
// trying a fixed priority order of sources.
package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Source is one strategy in the fallback chain. Attempt returns the
// repository URL, an empty string when the source has nothing for the
// paper, or an error when the source's response could not be used.
type Source interface {
	Name() string
	Attempt(ctx context.Context, ref types.Ref) (string, error)
}

// Chain tries sources strictly in order and returns the first hit.
// Sources never run in parallel: the ordering is a correctness invariant
// (a later, noisier source must not override an earlier, higher-confidence
// one) and sequential calls keep per-source rate limits honest.
type Chain struct {
	Sources []Source

	// Log receives per-source failure lines. Nil discards them.
	Log io.Writer
}

// Resolve returns the first source's URL, or ("", false) when every
// source comes up empty. A source error is logged and treated as absent
// for that source only; later sources still run.
func (c *Chain) Resolve(ctx context.Context, ref types.Ref) (string, bool) {
	log := c.Log
	if log == nil {
		log = io.Discard
	}
	for _, s := range c.Sources {
		url, err := s.Attempt(ctx, ref)
		if err != nil {
			fmt.Fprintf(log, "resolve %s: %s: %v\n", ref.ID, s.Name(), err)
			continue
		}
		if url != "" {
			return url, true
		}
	}
	return "", false
}

// DefaultChain assembles the production source order: the Hugging Face
// hub lookup first, then GitHub searches of decreasing specificity, and
// finally the bare title and bare id searches.
func DefaultChain(hub *HubSource, gh *GitHub, log io.Writer) *Chain {
	return &Chain{
		Sources: []Source{
			hub,
			&ReadmeSearchSource{GitHub: gh},
			&IdentifierSearchSource{GitHub: gh},
			&CodeSearchSource{GitHub: gh},
			&BareSearchSource{GitHub: gh, Field: BareTitle},
			&BareSearchSource{GitHub: gh, Field: BareID},
		},
		Log: log,
	}
}

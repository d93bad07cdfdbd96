// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives discovery, backfill, and render runs over the
// record store.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/pdiddy/paperwatch/internal/arxiv"
	"github.com/pdiddy/paperwatch/internal/httputil"
	"github.com/pdiddy/paperwatch/internal/render"
	"github.com/pdiddy/paperwatch/internal/resolve"
	"github.com/pdiddy/paperwatch/internal/store"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// arxivAbsBase prefixes canonical ids to form abstract page URLs.
const arxivAbsBase = "https://arxiv.org/abs/"

// Feed abstracts the literature discovery collaborator.
type Feed interface {
	Search(ctx context.Context, query string, maxResults int) ([]arxiv.Entry, error)
}

// Pipeline combines the feed, the resolver chain, and the record store
// into the discovery and backfill runs. Everything executes strictly
// sequentially within one run; the store has no other writers.
type Pipeline struct {
	Config  types.Config
	Feed    Feed
	Resolve store.ResolverFunc
	Log     io.Writer
}

func (p *Pipeline) log() io.Writer {
	if p.Log == nil {
		return io.Discard
	}
	return p.Log
}

// New wires the production pipeline from configuration: a shared HTTP
// client, the arXiv feed, and the resolver chain with the GitHub token
// attached when present.
func New(cfg types.Config, log io.Writer) *Pipeline {
	hc := &http.Client{Timeout: cfg.Timeout}
	fetcher := &httputil.Client{
		HTTP:      hc,
		Retries:   cfg.Retries,
		Backoff:   cfg.Backoff,
		UserAgent: cfg.UserAgent,
		Log:       log,
	}
	gh := &resolve.GitHub{Client: fetcher, Token: cfg.GitHubToken}
	chain := resolve.DefaultChain(&resolve.HubSource{Client: fetcher}, gh, log)
	feed := &arxiv.Client{HTTP: hc, UserAgent: cfg.UserAgent, Log: log}

	return &Pipeline{
		Config:  cfg,
		Feed:    feed,
		Resolve: chain.Resolve,
		Log:     log,
	}
}

// Discover runs a discovery pass: query every configured topic, resolve
// code links for the new papers, merge them into the store, save it, and
// re-render every output target. A failed topic query is logged and
// skipped; it never aborts the run.
func (p *Pipeline) Discover(ctx context.Context) error {
	s, err := store.Load(p.Config.StorePath, p.log())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(p.Config.Topics))
	for name := range p.Config.Topics {
		names = append(names, name)
	}
	sort.Strings(names)

	batch := make(map[string]store.Topic, len(names))
	for _, name := range names {
		query := arxiv.BuildQuery(p.Config.Topics[name].Filters)
		if query == "" {
			fmt.Fprintf(p.log(), "discover: topic %q has no usable filters\n", name)
			continue
		}
		fmt.Fprintf(p.log(), "discover: topic %q query %q\n", name, query)

		entries, err := p.Feed.Search(ctx, query, p.Config.MaxResults)
		if err != nil {
			fmt.Fprintf(p.log(), "discover: topic %q: %v\n", name, err)
			continue
		}
		batch[name] = p.collect(ctx, entries)
	}

	s.Merge(batch)
	if err := s.Save(p.Config.StorePath); err != nil {
		return err
	}
	return p.renderAll(s)
}

// collect builds records for a topic's entries, resolving code links
// strictly sequentially to respect upstream rate limits. A paper whose
// every source comes up empty is recorded unresolved, never dropped.
func (p *Pipeline) collect(ctx context.Context, entries []arxiv.Entry) store.Topic {
	t := make(store.Topic, len(entries))
	for _, e := range entries {
		id := types.CanonicalID(e.ShortID)
		date := e.Updated
		if date.IsZero() {
			date = e.Published
		}

		rec := types.PaperRecord{
			ID:          id,
			Date:        date,
			Title:       e.Title,
			FirstAuthor: firstAuthor(e.Authors),
			URL:         arxivAbsBase + id,
			Comment:     e.Comment,
		}
		fmt.Fprintf(p.log(), "discover: %s  %s  (%s)\n",
			date.Format("2006-01-02"), e.Title, rec.FirstAuthor)

		if url, ok := p.Resolve(ctx, types.Ref{ID: id, Title: e.Title, FirstAuthor: rec.FirstAuthor}); ok {
			rec.CodeURL = &url
		}
		t[id] = rec
	}
	return t
}

// Backfill re-resolves unresolved records in place, saves the store, and
// re-renders every output target.
func (p *Pipeline) Backfill(ctx context.Context) error {
	s, err := store.Load(p.Config.StorePath, p.log())
	if err != nil {
		return err
	}

	found := s.Backfill(ctx, p.Resolve, p.log())
	fmt.Fprintf(p.log(), "backfill: %d new code links\n", found)

	if err := s.Save(p.Config.StorePath); err != nil {
		return err
	}
	return p.renderAll(s)
}

// RenderOnly re-renders all output targets from the current store without
// touching the network.
func (p *Pipeline) RenderOnly() error {
	s, err := store.Load(p.Config.StorePath, p.log())
	if err != nil {
		return err
	}
	return p.renderAll(s)
}

func (p *Pipeline) renderAll(s store.Store) error {
	for _, out := range p.Config.Outputs {
		opts := render.Options{
			UseTitle:  out.UseTitle,
			ToWeb:     out.Web,
			UseTOC:    out.UseTOC,
			ShowBadge: out.ShowBadge,
			BackToTop: out.BackToTop,
			Repo:      p.Config.BadgeRepo,
		}
		if out.Style == types.StyleList {
			opts.Style = render.StyleList
		}
		if err := render.Render(s, out.Path, opts); err != nil {
			return err
		}
		fmt.Fprintf(p.log(), "render: wrote %s (%s)\n", out.Path, out.Name)
	}
	return nil
}

func firstAuthor(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	return authors[0]
}

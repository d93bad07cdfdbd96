// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv Atom API for recently submitted papers.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// narrowLimit is the reduced page size used when the first page errors or
// comes back unexpectedly empty.
const narrowLimit = 25

// Entry is one paper from the feed. ShortID keeps the version suffix
// (e.g. "2108.09112v1").
type Entry struct {
	ShortID         string
	Title           string
	Summary         string
	Comment         string
	PrimaryCategory string
	Authors         []string
	Published       time.Time
	Updated         time.Time
}

// Client queries the arXiv API.
type Client struct {
	HTTP      *http.Client
	UserAgent string

	// Log receives narrowing-retry notices. Nil discards them.
	Log io.Writer
}

// Search returns up to maxResults papers matching query, newest
// submissions first. A failed or empty first page is retried once at a
// narrowed page size before the error (if any) is surfaced.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Entry, error) {
	entries, err := c.fetch(ctx, query, maxResults)
	if (err != nil || len(entries) == 0) && maxResults > narrowLimit {
		log := c.Log
		if log == nil {
			log = io.Discard
		}
		fmt.Fprintf(log, "empty page from arXiv; retrying with at most %d results\n", narrowLimit)
		return c.fetch(ctx, query, narrowLimit)
	}
	return entries, err
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) ([]Entry, error) {
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		apiBase, url.QueryEscape(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var entries []Entry
	for _, fe := range feed.Entries {
		shortID := extractShortID(fe.ID)
		if shortID == "" {
			continue
		}

		e := Entry{
			ShortID:         shortID,
			Title:           strings.TrimSpace(fe.Title),
			Summary:         strings.ReplaceAll(strings.TrimSpace(fe.Summary), "\n", " "),
			Comment:         strings.TrimSpace(fe.Comment),
			PrimaryCategory: fe.PrimaryCategory.Term,
		}
		for _, a := range fe.Authors {
			e.Authors = append(e.Authors, strings.TrimSpace(a.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, fe.Published); parseErr == nil {
			e.Published = t
		}
		if t, parseErr := time.Parse(time.RFC3339, fe.Updated); parseErr == nil {
			e.Updated = t
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// BuildQuery renders a topic's filters as an arXiv search expression,
// e.g. `all:"Vision Language Model" OR all:VLM`. Filters containing
// spaces or hyphens are quoted.
func BuildQuery(filters []string) string {
	terms := make([]string, 0, len(filters))
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if strings.ContainsAny(f, " -") {
			f = `"` + f + `"`
		}
		terms = append(terms, "all:"+f)
	}
	return strings.Join(terms, " OR ")
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string       `xml:"id"`
	Title           string       `xml:"title"`
	Summary         string       `xml:"summary"`
	Comment         string       `xml:"comment"`
	Published       string       `xml:"published"`
	Updated         string       `xml:"updated"`
	PrimaryCategory atomCategory `xml:"primary_category"`
	Authors         []atomAuthor `xml:"author"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// extractShortID pulls the versioned short id from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2108.09112v1" -> "2108.09112v1").
func extractShortID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}

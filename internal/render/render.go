// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns the record store into Markdown listing documents.
package render

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/paperwatch/internal/store"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// Style selects the record line format.
type Style int

const (
	// StyleTable renders each record as a Markdown table row.
	StyleTable Style = iota

	// StyleList renders each record as a bullet line.
	StyleList
)

// Options controls one rendered document's presentation.
type Options struct {
	// UseTitle renders the date header as a heading instead of a quote
	// and enables the per-topic column preamble.
	UseTitle bool

	// ToWeb targets a Jekyll page: front matter plus the wide header
	// variant.
	ToWeb bool

	// UseTOC emits a table of contents over non-empty topics.
	UseTOC bool

	// ShowBadge emits shield badges at the top and their link
	// definitions at the bottom.
	ShowBadge bool

	// BackToTop appends an anchor link after each topic section.
	BackToTop bool

	// Style selects table rows or bullet lines.
	Style Style

	// Date stamps the "Updated on" header. The zero value means today;
	// tests pin it for byte-identical output.
	Date time.Time

	// Repo is the repository slug the shield badges point at. Empty
	// means defaultBadgeRepo.
	Repo string
}

// defaultBadgeRepo is the badge slug used when none is configured.
const defaultBadgeRepo = "pdiddy/paperwatch"

// Render writes the store to path, fully replacing any prior contents.
// Output is deterministic for a given store and options: topics are
// emitted in sorted name order and records within a topic in descending
// canonical-id order, which is a recency sort because ids are
// date-prefixed. Topics without records are skipped entirely; an empty
// store renders only the surrounding chrome.
func Render(s store.Store, path string, opts Options) error {
	var buf bytes.Buffer
	writeDocument(&buf, s, opts)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeDocument(w *bytes.Buffer, s store.Store, opts Options) {
	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	stamp := date.Format("2006.01.02")

	repo := opts.Repo
	if repo == "" {
		repo = defaultBadgeRepo
	}

	if opts.UseTitle && opts.ToWeb {
		w.WriteString("---\nlayout: default\n---\n\n")
	}

	if opts.ShowBadge {
		w.WriteString("[![Contributors][contributors-shield]][contributors-url]\n")
		w.WriteString("[![Forks][forks-shield]][forks-url]\n")
		w.WriteString("[![Stargazers][stars-shield]][stars-url]\n")
		w.WriteString("[![Issues][issues-shield]][issues-url]\n\n")
	}

	if opts.UseTitle {
		fmt.Fprintf(w, "## Updated on %s\n", stamp)
	} else {
		fmt.Fprintf(w, "> Updated on %s\n", stamp)
	}
	w.WriteString("> Usage instructions: [here](./docs/README.md#usage)\n\n")

	topics := sortedTopics(s)

	if opts.UseTOC {
		w.WriteString("<details>\n")
		w.WriteString("  <summary>Table of Contents</summary>\n")
		w.WriteString("  <ol>\n")
		for _, name := range topics {
			anchor := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
			fmt.Fprintf(w, "    <li><a href=#%s>%s</a></li>\n", anchor, name)
		}
		w.WriteString("  </ol>\n")
		w.WriteString("</details>\n\n")
	}

	for _, name := range topics {
		papers := s[name]
		fmt.Fprintf(w, "## %s\n\n", name)

		if opts.UseTitle {
			if opts.ToWeb {
				w.WriteString("| Publish Date | Title | Authors | PDF | Code |\n")
				w.WriteString("|:---------|:-----------------------|:---------|:------|:------|\n")
			} else {
				w.WriteString("|Publish Date|Title|Authors|PDF|Code|\n")
				w.WriteString("|---|---|---|---|---|\n")
			}
		}

		for _, id := range sortedIDsDesc(papers) {
			w.WriteString(PrettyMath(formatRecord(papers[id], opts.Style)))
		}
		w.WriteString("\n")

		if opts.BackToTop {
			anchor := "#updated-on-" + strings.ReplaceAll(stamp, ".", "")
			fmt.Fprintf(w, "<p align=right>(<a href=%s>back to top</a>)</p>\n\n", anchor)
		}
	}

	if opts.ShowBadge {
		writeBadgeLinks(w, repo)
	}
}

// formatRecord renders one record in the requested style. Legacy records
// that survived migration unparsed are emitted verbatim.
func formatRecord(rec types.PaperRecord, style Style) string {
	if rec.Raw != "" {
		if strings.HasSuffix(rec.Raw, "\n") {
			return rec.Raw
		}
		return rec.Raw + "\n"
	}

	date := rec.Date.Format("2006-01-02")

	if style == StyleList {
		line := fmt.Sprintf("- %s, **%s**, %s et.al., Paper: [%s](%s)",
			date, rec.Title, rec.FirstAuthor, rec.URL, rec.URL)
		if rec.Resolved() {
			line += fmt.Sprintf(", Code: **[%s](%s)**", *rec.CodeURL, *rec.CodeURL)
		}
		if rec.Comment != "" {
			line += ", " + rec.Comment
		}
		return line + "\n"
	}

	code := "null"
	if rec.Resolved() {
		code = fmt.Sprintf("**[link](%s)**", *rec.CodeURL)
	}
	return fmt.Sprintf("|**%s**|**%s**|%s et.al.|[%s](%s)|%s|\n",
		date, rec.Title, rec.FirstAuthor, rec.ID, rec.URL, code)
}

// sortedTopics returns the names of non-empty topics in sorted order.
func sortedTopics(s store.Store) []string {
	names := make([]string, 0, len(s))
	for name, papers := range s {
		if len(papers) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedIDsDesc returns the topic's ids in descending order.
func sortedIDsDesc(t store.Topic) []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

func writeBadgeLinks(w *bytes.Buffer, repo string) {
	fmt.Fprintf(w, "[contributors-shield]: https://img.shields.io/github/contributors/%s.svg?style=for-the-badge\n", repo)
	fmt.Fprintf(w, "[contributors-url]: https://github.com/%s/graphs/contributors\n", repo)
	fmt.Fprintf(w, "[forks-shield]: https://img.shields.io/github/forks/%s.svg?style=for-the-badge\n", repo)
	fmt.Fprintf(w, "[forks-url]: https://github.com/%s/network/members\n", repo)
	fmt.Fprintf(w, "[stars-shield]: https://img.shields.io/github/stars/%s.svg?style=for-the-badge\n", repo)
	fmt.Fprintf(w, "[stars-url]: https://github.com/%s/stargazers\n", repo)
	fmt.Fprintf(w, "[issues-shield]: https://img.shields.io/github/issues/%s.svg?style=for-the-badge\n", repo)
	fmt.Fprintf(w, "[issues-url]: https://github.com/%s/issues\n\n", repo)
}

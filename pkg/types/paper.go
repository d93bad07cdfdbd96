// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the paperwatch pipeline.
package types

import (
	"strconv"
	"strings"
	"time"
)

// PaperRecord is one tracked paper within a topic. CodeURL is nil until a
// code implementation has been resolved; the JSON form keeps an explicit
// null for the unresolved state, never an empty string.
type PaperRecord struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	FirstAuthor string    `json:"first_author"`
	URL         string    `json:"url"`
	CodeURL     *string   `json:"code_url"`
	Comment     string    `json:"comment,omitempty"`

	// Raw holds a legacy pre-formatted fragment that could not be parsed
	// during store migration. Such records render verbatim and are never
	// backfilled.
	Raw string `json:"raw,omitempty"`
}

// Resolved reports whether the record already carries a code link.
func (r PaperRecord) Resolved() bool { return r.CodeURL != nil }

// Ref identifies a paper to the resolver chain.
type Ref struct {
	ID          string
	Title       string
	FirstAuthor string
}

// CanonicalID strips a trailing version suffix from an arXiv short id
// (e.g. "2108.09112v1" -> "2108.09112"). All versions of a paper share
// one canonical id, which is the sole dedup key within a topic. The
// result is stable under repeated calls.
func CanonicalID(id string) string {
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 && vIdx < len(id)-1 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			return id[:vIdx]
		}
	}
	return id
}

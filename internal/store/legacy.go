// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// linkPattern matches a Markdown link and captures its text and target.
var linkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)

// ParseFragment parses the historical table-row serialization back into a
// structured record:
//
//	|**2021-08-20**|**Some Title**|First Author et.al.|[2108.09112](https://arxiv.org/abs/2108.09112)|**[link](https://github.com/org/repo)**|
//
// The code field is either a Markdown link or the literal null marker.
// Bullet-style fragments and anything else that does not fit the shape
// produce an error; the caller keeps such fragments verbatim.
func ParseFragment(fragment string) (types.PaperRecord, error) {
	parts := strings.Split(strings.TrimSpace(fragment), "|")
	if len(parts) != 7 {
		return types.PaperRecord{}, fmt.Errorf("fragment has %d fields, want 5", len(parts)-2)
	}

	trimBold := func(s string) string {
		return strings.Trim(strings.TrimSpace(s), "*")
	}

	dateStr := trimBold(parts[1])
	title := trimBold(parts[2])
	author := strings.TrimSuffix(strings.TrimSpace(parts[3]), " et.al.")
	pdfField := strings.TrimSpace(parts[4])
	codeField := strings.TrimSpace(parts[5])

	m := linkPattern.FindStringSubmatch(pdfField)
	if m == nil {
		return types.PaperRecord{}, fmt.Errorf("no paper link in %q", pdfField)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return types.PaperRecord{}, fmt.Errorf("bad date %q: %w", dateStr, err)
	}

	rec := types.PaperRecord{
		ID:          types.CanonicalID(strings.TrimSpace(m[1])),
		Date:        date,
		Title:       title,
		FirstAuthor: author,
		URL:         m[2],
	}

	if codeField != "null" {
		cm := linkPattern.FindStringSubmatch(codeField)
		if cm == nil {
			return types.PaperRecord{}, fmt.Errorf("bad code field %q", codeField)
		}
		u := cm[2]
		rec.CodeURL = &u
	}
	return rec, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fragmentResolved = "|**2021-08-20**|**Some Paper**|Ada Lovelace et.al.|[2108.09112](https://arxiv.org/abs/2108.09112)|**[link](https://github.com/org/repo)**|"
	fragmentNull     = "|**2021-05-04**|**Another Paper**|Charles Babbage et.al.|[2105.01601v1](https://arxiv.org/abs/2105.01601)|null|"
	fragmentBullet   = "- 2021-08-20, **Some Paper**, Ada Lovelace et.al., Paper: [https://arxiv.org/abs/2108.09112](https://arxiv.org/abs/2108.09112)"
)

func TestParseFragmentResolved(t *testing.T) {
	rec, err := ParseFragment(fragmentResolved)
	require.NoError(t, err)

	assert.Equal(t, "2108.09112", rec.ID)
	assert.Equal(t, time.Date(2021, 8, 20, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, "Some Paper", rec.Title)
	assert.Equal(t, "Ada Lovelace", rec.FirstAuthor)
	assert.Equal(t, "https://arxiv.org/abs/2108.09112", rec.URL)
	require.True(t, rec.Resolved())
	assert.Equal(t, "https://github.com/org/repo", *rec.CodeURL)
	assert.Empty(t, rec.Raw)
}

func TestParseFragmentNullCode(t *testing.T) {
	rec, err := ParseFragment(fragmentNull)
	require.NoError(t, err)

	assert.Equal(t, "2105.01601", rec.ID, "versioned link text canonicalized")
	assert.False(t, rec.Resolved())
}

func TestParseFragmentErrors(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{name: "bullet style", fragment: fragmentBullet},
		{name: "too few fields", fragment: "|**2021-08-20**|**Some Paper**|"},
		{name: "bad date", fragment: "|**August 20**|**Some Paper**|Ada Lovelace et.al.|[2108.09112](https://arxiv.org/abs/2108.09112)|null|"},
		{name: "no paper link", fragment: "|**2021-08-20**|**Some Paper**|Ada Lovelace et.al.|2108.09112|null|"},
		{name: "bad code field", fragment: "|**2021-08-20**|**Some Paper**|Ada Lovelace et.al.|[2108.09112](https://arxiv.org/abs/2108.09112)|broken|"},
		{name: "empty", fragment: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFragment(tt.fragment)
			assert.Error(t, err)
		})
	}
}

func TestLoadMigratesFragmentStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	legacy := `{
  "SLAM": {
    "2108.09112": "` + fragmentResolved + `",
    "2105.01601": "` + fragmentNull + `"
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := Load(path, nil)
	require.NoError(t, err)

	resolved := s["SLAM"]["2108.09112"]
	assert.Equal(t, "Some Paper", resolved.Title)
	assert.True(t, resolved.Resolved())

	unresolved := s["SLAM"]["2105.01601"]
	assert.False(t, unresolved.Resolved())
	assert.Equal(t, "Charles Babbage", unresolved.FirstAuthor)
}

func TestLoadKeepsUnparseableFragmentVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	legacy := `{"SLAM": {"2108.09112": "` + fragmentBullet + `"}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	var log bytes.Buffer
	s, err := Load(path, &log)
	require.NoError(t, err)

	rec := s["SLAM"]["2108.09112"]
	assert.Equal(t, fragmentBullet, rec.Raw)
	assert.Equal(t, "2108.09112", rec.ID)
	assert.Contains(t, log.String(), "keeping record verbatim")

	// The verbatim record survives a save/load cycle untouched.
	require.NoError(t, s.Save(path))
	again, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, rec, again["SLAM"]["2108.09112"])
}

func TestLoadMixedFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	mixed := `{
  "SLAM": {
    "2108.09112": "` + fragmentResolved + `",
    "2105.01601": {
      "id": "2105.01601",
      "date": "2021-05-04T00:00:00Z",
      "title": "Another Paper",
      "first_author": "Charles Babbage",
      "url": "https://arxiv.org/abs/2105.01601",
      "code_url": null
    }
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(mixed), 0o644))

	s, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, s["SLAM"], 2)
	assert.True(t, s["SLAM"]["2108.09112"].Resolved())
	assert.False(t, s["SLAM"]["2105.01601"].Resolved())
	assert.Equal(t, "Another Paper", s["SLAM"]["2105.01601"].Title)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigKeepsTopicNameCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paperwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
keywords:
  SLAM:
    filters: [SLAM]
  Visual Question Answering:
    filters: ["Visual Question Answering", VQA]
`), 0o644))

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.Contains(t, cfg.Topics, "SLAM")
	require.Contains(t, cfg.Topics, "Visual Question Answering")
	assert.NotContains(t, cfg.Topics, "slam")
	assert.Equal(t, []string{"SLAM"}, cfg.Topics["SLAM"].Filters)
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxResults)
	assert.Equal(t, "docs/papers.json", cfg.StorePath)
	assert.Equal(t, "pdiddy/paperwatch", cfg.BadgeRepo)
	require.Len(t, cfg.Outputs, 1)
	assert.Equal(t, "README.md", cfg.Outputs[0].Path)
}

func TestGitHubTokenPrecedence(t *testing.T) {
	t.Setenv("MY_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	prev := loadedSecrets
	t.Cleanup(func() { loadedSecrets = prev })

	loadedSecrets = nil
	assert.Empty(t, githubToken())

	t.Setenv("GITHUB_TOKEN", "ambient")
	assert.Equal(t, "ambient", githubToken())

	loadedSecrets = map[string]string{"github-token": "from-secrets"}
	assert.Equal(t, "from-secrets", githubToken(), "secrets file beats the ambient token")

	t.Setenv("MY_GITHUB_TOKEN", "explicit")
	assert.Equal(t, "explicit", githubToken(), "user-created token beats everything")
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml list", "a.yaml", "- id: 1\n  title: One\n  content: first\n"},
		{"yaml object", "b.yml", "posts:\n  - id: 1\n    title: One\n    content: first\n"},
		{"json list", "c.json", `[{"id": 1, "title": "One", "content": "first"}]`},
		{"json object", "d.json", `{"posts": [{"id": 1, "title": "One", "content": "first"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := LoadSeedFile(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)
			require.Len(t, posts, 1)
			assert.Equal(t, 1, posts[0].ID)
			assert.Equal(t, "One", posts[0].Title)
			assert.Equal(t, "first", posts[0].Content)
		})
	}
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSeedFile(writeFile(t, dir, "bad.yaml", "- id: [\n"))
	assert.ErrorIs(t, err, ErrInvalidYAML)

	_, err = LoadSeedFile(writeFile(t, dir, "bad.json", "[{"))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestLoadSeedGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "seed/b.yaml", "- id: 2\n  title: Two\n")
	writeFile(t, dir, "seed/a.yaml", "- id: 1\n  title: One\n")
	writeFile(t, dir, "seed/nested/c.yaml", "- id: 3\n  title: Three\n")

	t.Run("single level is sorted", func(t *testing.T) {
		posts, err := LoadSeedGlob("seed/*.yaml", dir)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, 1, posts[0].ID)
		assert.Equal(t, 2, posts[1].ID)
	})

	t.Run("recursive", func(t *testing.T) {
		posts, err := LoadSeedGlob("seed/**/*.yaml", dir)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("absolute pattern", func(t *testing.T) {
		posts, err := LoadSeedGlob(filepath.Join(dir, "seed", "a.yaml"), "/elsewhere")
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		posts, err := LoadSeedGlob("missing/*.yaml", dir)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestSeedPosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts/extra.yaml", "- id: 9\n  title: Extra\n")
	path := writeFile(t, dir, "blogd.yaml", `
seed:
  - id: 1
    title: Inline
seedFiles:
  - posts/*.yaml
`)

	cfg := Default()
	require.NoError(t, LoadFile(path, cfg))

	posts, err := cfg.SeedPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Inline", posts[0].Title)
	assert.Equal(t, "Extra", posts[1].Title)
}

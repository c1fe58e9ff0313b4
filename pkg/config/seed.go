package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/blogd/pkg/blog"
)

// seedFile is the on-disk shape of a seed file. A bare list of posts is
// also accepted.
type seedFile struct {
	Posts []blog.Post `json:"posts" yaml:"posts"`
}

// SeedPosts returns the inline seed posts followed by the posts from every
// file matching SeedFiles, in sorted path order.
func (c *Config) SeedPosts() ([]blog.Post, error) {
	posts := append([]blog.Post(nil), c.Seed...)
	for _, pattern := range c.SeedFiles {
		loaded, err := LoadSeedGlob(pattern, c.BaseDir())
		if err != nil {
			return nil, err
		}
		posts = append(posts, loaded...)
	}
	return posts, nil
}

// LoadSeedGlob loads posts from every file matching pattern. Relative
// patterns resolve against baseDir. No matches is not an error.
func LoadSeedGlob(pattern, baseDir string) ([]blog.Post, error) {
	resolved := pattern
	if !filepath.IsAbs(resolved) && baseDir != "" {
		resolved = filepath.Join(baseDir, resolved)
	}

	matches, err := expandGlob(resolved)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var result []blog.Post
	for _, match := range matches {
		posts, err := LoadSeedFile(match)
		if err != nil {
			rel, relErr := filepath.Rel(baseDir, match)
			if relErr != nil {
				rel = match
			}
			return nil, fmt.Errorf("loading %s: %w", rel, err)
		}
		result = append(result, posts...)
	}
	return result, nil
}

// LoadSeedFile reads posts from a YAML or JSON file. The file holds either
// a list of posts or an object with a "posts" list.
func LoadSeedFile(path string) ([]blog.Post, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	var posts []blog.Post
	if isYAML(path) {
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "[") {
			err = yaml.Unmarshal(data, &posts)
		} else {
			var f seedFile
			err = yaml.Unmarshal(data, &f)
			posts = f.Posts
		}
		if err != nil {
			return nil, fmt.Errorf("%w in file %s: %v", ErrInvalidYAML, path, err)
		}
		return posts, nil
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
	}
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &posts)
	} else {
		var f seedFile
		err = json.Unmarshal(data, &f)
		posts = f.Posts
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return posts, nil
}

// expandGlob uses doublestar when the pattern contains **, filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}

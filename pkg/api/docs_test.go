package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewOpenAPI_Valid(t *testing.T) {
	doc := NewOpenAPI("1.2.3")

	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "1.2.3", doc.Info.Version)

	blogs := doc.Paths.Value("/blogs")
	require.NotNil(t, blogs)
	require.NotNil(t, blogs.Post)
	require.NotNil(t, blogs.Get)
	assert.Equal(t, "createBlogPost", blogs.Post.OperationID)

	byID := doc.Paths.Value("/blogs/{id}")
	require.NotNil(t, byID)
	assert.NotNil(t, byID.Get)
	assert.NotNil(t, byID.Put)
	assert.NotNil(t, byID.Delete)
}

func TestNewOpenAPI_ExampleCreateRequest(t *testing.T) {
	doc := NewOpenAPI("dev")

	media := doc.Paths.Value("/blogs").Post.RequestBody.Value.Content.Get("application/json")
	require.NotNil(t, media)
	assert.Equal(t, map[string]any{
		"title":   "My first blog",
		"content": "Hello Armeria!",
	}, media.Example)
}

func TestDocsEndpoints(t *testing.T) {
	s := newTestServer(t, WithVersion("9.9.9"))
	h := s.Handler()

	t.Run("redirect", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/docs", "")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/docs/openapi.json", rec.Header().Get("Location"))
	})

	t.Run("subtree redirects", func(t *testing.T) {
		for _, target := range []string{"/docs/", "/docs/index.html"} {
			rec := do(t, h, http.MethodGet, target, "")
			assert.Equal(t, http.StatusFound, rec.Code, target)
			assert.Equal(t, "/docs/openapi.json", rec.Header().Get("Location"), target)
		}
	})

	t.Run("json", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/docs/openapi.json", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		loaded, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "9.9.9", loaded.Info.Version)
		assert.NotNil(t, loaded.Paths.Value("/blogs/{id}"))
	})

	t.Run("yaml", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/docs/openapi.yaml", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "3.0.3", doc["openapi"])
		paths, ok := doc["paths"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, paths, "/blogs")
	})
}

func TestEncodeDocs_JSONAndYAMLAgree(t *testing.T) {
	jsonDoc, yamlDoc, err := encodeDocs(NewOpenAPI("dev"))
	require.NoError(t, err)

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal(jsonDoc, &fromJSON))
	require.NoError(t, yaml.Unmarshal(yamlDoc, &fromYAML))
	assert.Equal(t, fromJSON["info"], fromYAML["info"])
}

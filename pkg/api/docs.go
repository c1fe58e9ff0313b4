package api

import (
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// ExampleCreateRequest is the sample body shown for POST /blogs.
const ExampleCreateRequest = `{"title":"My first blog", "content":"Hello Armeria!"}`

const jsonMediaType = "application/json"

// NewOpenAPI describes the blog routes as an OpenAPI 3 document.
func NewOpenAPI(version string) *openapi3.T {
	post := postSchema()
	request := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema())
	errorBody := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())

	var example any
	_ = json.Unmarshal([]byte(ExampleCreateRequest), &example)
	createBody := openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchema(request)
	createBody.Content[jsonMediaType].Example = example

	idParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").
		WithDescription("Post id").
		WithSchema(openapi3.NewIntegerSchema())}
	descendingParam := &openapi3.ParameterRef{Value: openapi3.NewQueryParameter("descending").
		WithDescription("Sort by id; defaults to true").
		WithSchema(openapi3.NewBoolSchema())}

	jsonResponse := func(desc string, schema *openapi3.Schema) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchema(schema)}
	}
	emptyResponse := func(desc string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc)}
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "blogd",
			Description: "In-memory blog post service",
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/blogs", &openapi3.PathItem{
				Post: &openapi3.Operation{
					OperationID: "createBlogPost",
					Summary:     "Create a post",
					Tags:        []string{"blogs"},
					RequestBody: &openapi3.RequestBodyRef{Value: createBody},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, jsonResponse("The created post", post)),
						openapi3.WithStatus(http.StatusBadRequest, jsonResponse("Malformed body", errorBody)),
					),
				},
				Get: &openapi3.Operation{
					OperationID: "getBlogPosts",
					Summary:     "List posts",
					Tags:        []string{"blogs"},
					Parameters:  openapi3.Parameters{descendingParam},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, jsonResponse("All live posts", openapi3.NewArraySchema().WithItems(post))),
					),
				},
			}),
			openapi3.WithPath("/blogs/{id}", &openapi3.PathItem{
				Parameters: openapi3.Parameters{idParam},
				Get: &openapi3.Operation{
					OperationID: "getBlogPost",
					Summary:     "Fetch a post",
					Tags:        []string{"blogs"},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, jsonResponse("The post", post)),
						openapi3.WithStatus(http.StatusNotFound, jsonResponse("No live post with this id", errorBody)),
					),
				},
				Put: &openapi3.Operation{
					OperationID: "updateBlogPost",
					Summary:     "Replace a post's title and content",
					Tags:        []string{"blogs"},
					RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
						WithRequired(true).
						WithJSONSchema(request)},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, jsonResponse("The updated post", post)),
						openapi3.WithStatus(http.StatusNotFound, jsonResponse("No live post with this id", errorBody)),
					),
				},
				Delete: &openapi3.Operation{
					OperationID: "deleteBlogPost",
					Summary:     "Delete a post",
					Tags:        []string{"blogs"},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusNoContent, emptyResponse("Deleted")),
						openapi3.WithStatus(http.StatusBadRequest, jsonResponse("No live post with this id",
							openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema()))),
					),
				},
			}),
		),
	}
}

func postSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema()).
		WithProperty("createdAt", openapi3.NewInt64Schema()).
		WithProperty("modifiedAt", openapi3.NewInt64Schema())
}

// encodeDocs renders doc as JSON and YAML.
func encodeDocs(doc *openapi3.T) (jsonDoc, yamlDoc []byte, err error) {
	jsonDoc, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	var generic any
	if err := json.Unmarshal(jsonDoc, &generic); err != nil {
		return nil, nil, err
	}
	yamlDoc, err = yaml.Marshal(generic)
	if err != nil {
		return nil, nil, err
	}
	return jsonDoc, yamlDoc, nil
}

func (s *Server) handleDocsRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/docs/openapi.json", http.StatusFound)
}

func (s *Server) handleDocsJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", jsonMediaType)
	_, _ = w.Write(s.docs)
}

func (s *Server) handleDocsYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.docsYML)
}

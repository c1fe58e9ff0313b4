// Package api serves the blog post store over HTTP.
//
// Routes:
//
//	POST   /blogs                    create a post from {"title","content"}
//	GET    /blogs/{id}               fetch one post
//	GET    /blogs?descending=true    list posts
//	PUT    /blogs/{id}               replace title and content
//	DELETE /blogs/{id}               remove a post
//	GET    /docs, /docs/...          redirect to /docs/openapi.json
//	GET    /docs/openapi.{json,yaml} OpenAPI 3 description of the above
//	GET    /health                   liveness
//	GET    /metrics                  Prometheus text exposition
//
// The server assigns ids from an id.Sequence and stamps timestamps in epoch
// milliseconds from its clock. Requests carry an X-Request-ID that is echoed
// on the response and attached to the request logger.
package api

// Package api embeds the HTTP API contract and serves it.
package api

import (
	_ "embed"
	"net/http"
)

// OpenAPISpec is the OpenAPI 3 document served at /api/openapi.yaml.
//
//go:embed openapi/openapi.yaml
var OpenAPISpec []byte

const docsPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>userdesk API</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.onload = () => { window.ui = SwaggerUIBundle({ url: "/api/openapi.yaml", dom_id: "#swagger-ui" }); };
</script>
</body>
</html>
`

// SpecHandler serves OpenAPISpec as YAML.
func SpecHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(OpenAPISpec)
}

// DocsHandler serves a Swagger UI page pointed at SpecHandler.
func DocsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}

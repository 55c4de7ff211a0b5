// Package testutil provides helpers for end-to-end HTTP tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// Paths served outside the JSON contract.
var unvalidatedPaths = map[string]bool{
	"/healthz":          true,
	"/docs":             true,
	"/api/openapi.yaml": true,
}

// OpenAPIValidator checks responses against the embedded API contract.
type OpenAPIValidator struct {
	router routers.Router
}

// NewOpenAPIValidator loads spec or fails the test.
func NewOpenAPIValidator(t *testing.T, spec []byte) *OpenAPIValidator {
	t.Helper()

	v, err := LoadOpenAPIValidator(spec)
	if err != nil {
		t.Fatalf("load OpenAPI validator: %v", err)
	}
	return v
}

// LoadOpenAPIValidator parses and validates the document in spec.
func LoadOpenAPIValidator(spec []byte) (*OpenAPIValidator, error) {
	ctx := context.Background()

	doc, err := openapi3.NewLoader().LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return &OpenAPIValidator{router: router}, nil
}

// Check validates resp as the answer to req. The response body is read and
// replaced so callers can still decode it.
func (v *OpenAPIValidator) Check(req *http.Request, resp *http.Response) error {
	if unvalidatedPaths[req.URL.Path] {
		return nil
	}

	// legacy router resolves paths relative to the document root.
	lookup, err := http.NewRequest(req.Method, req.URL.Path, nil)
	if err != nil {
		return err
	}
	route, params, err := v.router.FindRoute(lookup)
	if err != nil {
		return fmt.Errorf("%s %s is not in the contract: %w", req.Method, req.URL.Path, err)
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	err = openapi3filter.ValidateResponse(context.Background(), &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: params,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			MultiError:            true,
			IncludeResponseStatus: true,
		},
	})
	if err != nil {
		return fmt.Errorf("%s %s -> %d does not match the contract: %w\nbody: %s",
			req.Method, req.URL.Path, resp.StatusCode, err, clip(body, 300))
	}
	return nil
}

// ValidateResponse reports a contract mismatch as a test error.
func (v *OpenAPIValidator) ValidateResponse(t *testing.T, req *http.Request, resp *http.Response) {
	t.Helper()
	if err := v.Check(req, resp); err != nil {
		t.Error(err)
	}
}

func clip(b []byte, n int) string {
	b = bytes.TrimSpace(b)
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// Package apispec loads the embedded OpenAPI contract of the JSON API and
// validates incoming requests against it.
package apispec

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/rotisserie/eris"
)

//go:embed openapi.yaml
var document []byte

// ErrRouteNotFound is returned for requests the contract does not describe.
var ErrRouteNotFound = eris.New("apispec: route not found")

// Raw returns a copy of the embedded document.
func Raw() []byte {
	return append([]byte(nil), document...)
}

// ValidationError is a request that does not satisfy the contract. Fields is
// keyed by JSON pointer into the body, or by parameter name.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return "apispec: " + e.Message
}

// Contract is a loaded, validated API description with a request router.
type Contract struct {
	doc    *openapi3.T
	router routers.Router
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadData(ctx, document)
}

// LoadData parses and validates the given document.
func LoadData(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, eris.New("apispec: document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, eris.Wrap(err, "apispec: load document")
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, eris.New("apispec: document does not contain any paths")
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, eris.Wrap(err, "apispec: validate")
	}
	router, err := legacy.NewRouter(doc, openapi3.DisableExamplesValidation())
	if err != nil {
		return nil, eris.Wrap(err, "apispec: build router")
	}
	return &Contract{doc: doc, router: router}, nil
}

// OperationIDs lists every operation in the contract.
func (c *Contract) OperationIDs() []string {
	var ids []string
	for _, path := range c.doc.Paths.InMatchingOrder() {
		item := c.doc.Paths.Value(path)
		for _, op := range item.Operations() {
			if op.OperationID != "" {
				ids = append(ids, op.OperationID)
			}
		}
	}
	return ids
}

// ValidateRequest checks parameters and body of r. The body remains readable
// afterwards.
func (c *Contract) ValidateRequest(r *http.Request) error {
	route, params, err := c.router.FindRoute(r)
	if err != nil {
		return eris.Wrapf(ErrRouteNotFound, "%s %s", r.Method, r.URL.Path)
	}
	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: params,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		return toValidationError(err)
	}
	return nil
}

// Middleware rejects requests that fail validation through onError.
func (c *Contract) Middleware(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := c.ValidateRequest(r); err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func toValidationError(err error) *ValidationError {
	out := &ValidationError{Message: "request does not match the API contract", Fields: map[string][]string{}}
	collect(err, out)
	if len(out.Fields) == 0 {
		out.Fields = nil
	}
	return out
}

func collect(err error, out *ValidationError) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			collect(item, out)
		}
		return
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			out.Fields[reqErr.Parameter.Name] = append(out.Fields[reqErr.Parameter.Name], reason(reqErr))
			return
		}
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		key := "/" + strings.Join(schemaErr.JSONPointer(), "/")
		out.Fields[key] = append(out.Fields[key], schemaErr.Reason)
		return
	}

	if reqErr != nil {
		out.Fields[""] = append(out.Fields[""], reason(reqErr))
		return
	}
	out.Fields[""] = append(out.Fields[""], err.Error())
}

func reason(err *openapi3filter.RequestError) string {
	if err.Reason != "" {
		return err.Reason
	}
	if err.Err != nil {
		return err.Err.Error()
	}
	return "invalid value"
}

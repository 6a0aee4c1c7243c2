package apispec

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadContract(t *testing.T) *Contract {
	t.Helper()
	contract, err := Load(context.Background())
	require.NoError(t, err)
	return contract
}

func TestLoadEmbeddedDocument(t *testing.T) {
	contract := loadContract(t)
	ids := contract.OperationIDs()
	for _, want := range []string{
		"createSession", "getSession", "updateAnswers", "nextStep", "previousStep",
		"submitIntake", "closeSession", "captureSignature", "clearSignature",
		"getDocument", "exportDocument", "listJurisdictions",
	} {
		assert.Contains(t, ids, want)
	}
}

func TestLoadDataRejectsEmpty(t *testing.T) {
	_, err := LoadData(context.Background(), nil)
	assert.Error(t, err)

	_, err = LoadData(context.Background(), []byte("openapi: 3.0.3\ninfo:\n  title: x\n  version: '1'\npaths: {}\n"))
	assert.Error(t, err)
}

func TestValidateRequestAcceptsAnswers(t *testing.T) {
	contract := loadContract(t)
	body := `{"answers":{"firstName":"Jane","isOver18":"yes","state":"CA"}}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/abcdefghij/answers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	require.NoError(t, contract.ValidateRequest(req))

	remaining := new(bytes.Buffer)
	_, err := remaining.ReadFrom(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, remaining.String(), "body must stay readable")
}

func TestValidateRequestRejectsBadAnswer(t *testing.T) {
	contract := loadContract(t)
	body := `{"answers":{"isOver18":"maybe"}}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/abcdefghij/answers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	err := contract.ValidateRequest(req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Fields, "/answers/isOver18")
}

func TestValidateRequestRejectsUnknownField(t *testing.T) {
	contract := loadContract(t)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/abcdefghij/answers",
		strings.NewReader(`{"answers":{"ssn":"123"}}`))
	req.Header.Set("Content-Type", "application/json")

	var verr *ValidationError
	assert.True(t, errors.As(contract.ValidateRequest(req), &verr))
}

func TestValidateRequestQueryEnum(t *testing.T) {
	contract := loadContract(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abcdefghij/export?format=docx", nil)

	var verr *ValidationError
	require.True(t, errors.As(contract.ValidateRequest(req), &verr))
	assert.Contains(t, verr.Fields, "format")

	ok := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abcdefghij/export?format=pdf", nil)
	assert.NoError(t, contract.ValidateRequest(ok))
}

func TestValidateRequestUnknownRoute(t *testing.T) {
	contract := loadContract(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	assert.True(t, errors.Is(contract.ValidateRequest(req), ErrRouteNotFound))
}

func TestMiddleware(t *testing.T) {
	contract := loadContract(t)
	var seen error
	handler := contract.Middleware(func(w http.ResponseWriter, _ *http.Request, err error) {
		seen = err
		w.WriteHeader(http.StatusUnprocessableEntity)
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abcdefghij", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abcdefghij/signature", strings.NewReader(`{"signature":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Error(t, seen)
}

func TestRawIsCopy(t *testing.T) {
	raw := Raw()
	raw[0] = 'X'
	assert.NotEqual(t, byte('X'), Raw()[0])
}

package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/palletline/wms-backend/pkg/errors"
)

func TestWriteSuccessMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]any{"client": "acme"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success flag, got %v", body)
	}
	if body["client"] != "acme" {
		t.Fatalf("expected payload merged, got %v", body)
	}
}

func TestWriteSuccessStatusCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if decode(t, rec)["success"] != true {
		t.Fatal("expected success flag")
	}
}

func TestWriteErrorExposesClientSafeMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec,
		pkgerrors.New(pkgerrors.CodeNotFound, "client not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if decode(t, rec)["error"] != "client not found" {
		t.Fatalf("expected message passed through, got %s", rec.Body.String())
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec,
		pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: relation missing"), "loading client"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	msg, _ := decode(t, rec)["error"].(string)
	if strings.Contains(msg, "relation missing") || strings.Contains(msg, "loading client") {
		t.Fatalf("internal detail leaked to the client: %q", msg)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	msg, _ := decode(t, rec)["error"].(string)
	if strings.Contains(msg, "boom") {
		t.Fatalf("raw error leaked to the client: %q", msg)
	}
}

func TestWriteCSVHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCSV(rec, "inventory-2025-09-05.csv", []byte("sku,name\r\n"))

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "inventory-2025-09-05.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if rec.Body.String() != "sku,name\r\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

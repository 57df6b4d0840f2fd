package api

import (
	"net/http"
	"testing"
)

func TestTenantEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(t, http.MethodPost, "/tenants", map[string]interface{}{"name": "Acme"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %v", w.Code, out)
	}
	id := dataField(t, out, "id")
	if got := dataField(t, out, "status"); got != "active" {
		t.Fatalf("default status = %q", got)
	}

	w, out = s.do(t, http.MethodPatch, "/tenants/"+id, map[string]interface{}{"status": "suspended"})
	if w.Code != http.StatusOK || dataField(t, out, "status") != "suspended" {
		t.Fatalf("update: %d %v", w.Code, out)
	}

	w, out = s.do(t, http.MethodGet, "/tenants", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	if list, _ := out["data"].([]interface{}); len(list) != 1 {
		t.Fatalf("expected one tenant, got %v", out["data"])
	}

	t.Run("missing name", func(t *testing.T) {
		w, out := s.do(t, http.MethodPost, "/tenants", map[string]interface{}{})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d %v", w.Code, out)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		w, out := s.do(t, http.MethodGet, "/tenants/not-a-uuid", nil)
		if w.Code != http.StatusBadRequest || errorCode(out) != "DB_ERROR_INVALID_INPUT" {
			t.Fatalf("got %d %v", w.Code, out)
		}
	})

	if w, _ := s.do(t, http.MethodDelete, "/tenants/"+id, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	w, out = s.do(t, http.MethodGet, "/tenants/"+id, nil)
	if w.Code != http.StatusNotFound || errorCode(out) != "DB_ERROR_NOT_FOUND" {
		t.Fatalf("get after delete: %d %v", w.Code, out)
	}
	if w, _ := s.do(t, http.MethodDelete, "/tenants/"+id, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, out := s.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("health: %d %v", w.Code, out)
	}
}

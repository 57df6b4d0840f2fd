package api

import (
	"net/http"
	"testing"
)

func TestTemplateEndpoints(t *testing.T) {
	s := newTestServer(t)
	tenantID, _ := s.seedTenantAndContact(t)

	w, out := s.do(t, http.MethodPost, "/templates/sync", map[string]interface{}{"tenantId": tenantID, "category": "marketing"})
	if w.Code != http.StatusOK || out["synced"] != float64(3) {
		t.Fatalf("sync: %d %v", w.Code, out)
	}

	w, out = s.do(t, http.MethodPost, "/templates", map[string]interface{}{"tenantId": tenantID, "name": "Back in Stock", "language": "en"})
	if w.Code != http.StatusBadRequest || errorCode(out) != "DB_ERROR_DUPLICATE" {
		t.Fatalf("duplicate: %d %v", w.Code, out)
	}

	w, out = s.do(t, http.MethodPost, "/templates", map[string]interface{}{"tenantId": tenantID, "name": "welcome"})
	if w.Code != http.StatusCreated || dataField(t, out, "status") != "pending" {
		t.Fatalf("create: %d %v", w.Code, out)
	}
	id := dataField(t, out, "id")

	w, out = s.do(t, http.MethodPatch, "/templates/"+id, map[string]interface{}{"status": "archived"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d %v", w.Code, out)
	}

	w, out = s.do(t, http.MethodGet, "/templates?tenantId="+tenantID+"&status=approved", nil)
	list, _ := out["data"].([]interface{})
	if w.Code != http.StatusOK || len(list) != 3 {
		t.Fatalf("list approved: %d %v", w.Code, out)
	}

	if w, _ := s.do(t, http.MethodDelete, "/templates/"+id, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if w, _ := s.do(t, http.MethodGet, "/templates/"+id, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: %d", w.Code)
	}
}

func TestContactEndpoints(t *testing.T) {
	s := newTestServer(t)
	tenantID, contactID := s.seedTenantAndContact(t)

	w, out := s.do(t, http.MethodGet, "/contacts?tenantId="+tenantID+"&phone=%2B15551234567", nil)
	if w.Code != http.StatusOK || dataField(t, out, "id") != contactID {
		t.Fatalf("find by phone: %d %v", w.Code, out)
	}

	w, out = s.do(t, http.MethodPost, "/contacts", map[string]interface{}{"tenantId": tenantID, "phone": "+15551234567"})
	if w.Code != http.StatusBadRequest || errorCode(out) != "DB_ERROR_DUPLICATE" {
		t.Fatalf("duplicate phone: %d %v", w.Code, out)
	}

	w, out = s.do(t, http.MethodPost, "/contacts", map[string]interface{}{"tenantId": tenantID})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing phone: %d %v", w.Code, out)
	}
	e, _ := out["error"].(map[string]interface{})
	if e["message"] != "phone is required" {
		t.Fatalf("expected json field name in message, got %v", e["message"])
	}

	w, out = s.do(t, http.MethodPatch, "/contacts/"+contactID, map[string]interface{}{"name": "Ada L."})
	if w.Code != http.StatusOK || dataField(t, out, "name") != "Ada L." {
		t.Fatalf("update: %d %v", w.Code, out)
	}

	if w, _ := s.do(t, http.MethodDelete, "/tenants/"+tenantID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete tenant: %d", w.Code)
	}
	if w, _ := s.do(t, http.MethodGet, "/contacts/"+contactID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("contact should cascade with tenant, got %d", w.Code)
	}
}

package api

import (
	"net/http"
	"testing"
)

func TestAutomationDelay(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{"delay", map[string]interface{}{"delay": 5}, http.StatusOK},
		{"ms alias", map[string]interface{}{"ms": "10"}, http.StatusOK},
		{"empty body means zero", map[string]interface{}{}, http.StatusOK},
		{"negative", map[string]interface{}{"delay": -1}, http.StatusBadRequest},
		{"not a number", map[string]interface{}{"delay": "soon"}, http.StatusBadRequest},
		{"over max", map[string]interface{}{"delay": 5000}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, out := s.do(t, http.MethodPost, "/automation/delay", tc.body)
			if w.Code != tc.code {
				t.Fatalf("status = %d, want %d (%v)", w.Code, tc.code, out)
			}
			if tc.code == http.StatusBadRequest && out["error"] != "Invalid delay value" {
				t.Fatalf("unexpected error body %v", out)
			}
			if tc.code == http.StatusOK {
				if _, ok := out["delayed"]; !ok {
					t.Fatalf("missing delayed field %v", out)
				}
			}
		})
	}
}

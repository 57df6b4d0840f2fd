package api

import (
	"net/http"
	"testing"

	"messaging-gateway/internal/whatsapp"
)

func TestDirectSend(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(t, http.MethodPost, "/whatsapp/send", map[string]interface{}{"to": "+15551234567", "message": "hi"})
	if w.Code != http.StatusOK || out["messageId"] != "wamid.123" {
		t.Fatalf("send: %d %v", w.Code, out)
	}

	s.sender.result = nil
	s.sender.err = whatsapp.ErrInvalidRecipient
	w, out = s.do(t, http.MethodPost, "/whatsapp/send", map[string]interface{}{"to": "555", "message": "hi"})
	if w.Code != http.StatusBadRequest || errorCode(out) != "INVALID_PHONE_NUMBER" {
		t.Fatalf("invalid recipient: %d %v", w.Code, out)
	}

	s.sender.err = &whatsapp.ProviderError{StatusCode: 401, Message: "Invalid OAuth access token"}
	w, out = s.do(t, http.MethodPost, "/whatsapp/send", map[string]interface{}{"to": "+15551234567", "message": "hi"})
	if w.Code != http.StatusInternalServerError || errorCode(out) != "WHATSAPP_API_ERROR" {
		t.Fatalf("provider error: %d %v", w.Code, out)
	}
}

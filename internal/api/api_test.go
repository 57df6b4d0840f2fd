package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"messaging-gateway/internal/database"
	"messaging-gateway/internal/events"
	"messaging-gateway/internal/repository"
	"messaging-gateway/internal/service"
	"messaging-gateway/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubSender struct {
	result *whatsapp.SendResult
	err    error
}

func (s *stubSender) SendMessage(context.Context, string, string) (*whatsapp.SendResult, error) {
	return s.result, s.err
}

func (s *stubSender) SendTemplateMessage(context.Context, string, string, string) (*whatsapp.SendResult, error) {
	return s.result, s.err
}

func (s *stubSender) SendMediaMessage(context.Context, string, string, string, string) (*whatsapp.SendResult, error) {
	return s.result, s.err
}

type testServer struct {
	router *gin.Engine
	sender *stubSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zap.NewNop()
	sender := &stubSender{result: &whatsapp.SendResult{ExternalID: "wamid.123"}}
	tenantRepo := repository.NewTenantRepository(db)
	contactRepo := repository.NewContactRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	tplRepo := repository.NewTemplateRepository(db)

	templates := service.NewTemplateService(tenantRepo, tplRepo, log)
	tracker := service.NewConversationTracker(tenantRepo, contactRepo, convRepo, msgRepo, events.Nop{}, log)
	messages := service.NewMessageService(tenantRepo, contactRepo, msgRepo, templates, tracker, sender, events.Nop{}, log)

	router := NewRouter(Handlers{
		Tenants:       NewTenantHandler(service.NewTenantService(tenantRepo, log)),
		Contacts:      NewContactHandler(service.NewContactService(tenantRepo, contactRepo, log)),
		Conversations: NewConversationHandler(tracker),
		Messages:      NewMessageHandler(messages),
		Templates:     NewTemplateHandler(templates),
		WhatsApp:      NewWhatsAppHandler(sender, log),
		Automation:    NewAutomationHandler(time.Second, log),
	}, log)
	return &testServer{router: router, sender: sender}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func dataField(t *testing.T, out map[string]interface{}, key string) string {
	t.Helper()
	data, ok := out["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", out)
	}
	v, _ := data[key].(string)
	return v
}

func errorCode(out map[string]interface{}) string {
	e, _ := out["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

// seedTenantAndContact creates a tenant and a contact through the API.
func (s *testServer) seedTenantAndContact(t *testing.T) (tenantID, contactID string) {
	t.Helper()
	w, out := s.do(t, http.MethodPost, "/tenants", map[string]interface{}{"name": "Acme"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tenant: %d %v", w.Code, out)
	}
	tenantID = dataField(t, out, "id")

	w, out = s.do(t, http.MethodPost, "/contacts", map[string]interface{}{"tenantId": tenantID, "phone": "+15551234567", "name": "Ada"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create contact: %d %v", w.Code, out)
	}
	return tenantID, dataField(t, out, "id")
}

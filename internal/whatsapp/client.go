package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"messaging-gateway/internal/apperror"
	"messaging-gateway/internal/config"

	"go.uber.org/zap"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

var (
	ErrInvalidRecipient = apperror.Validation("INVALID_PHONE_NUMBER", "recipient must be an E.164 phone number")
	ErrEmptyContent     = apperror.Validation("EMPTY_MESSAGE", "message body must not be empty")
)

const genericProviderError = "Failed to send WhatsApp message"

type Client struct {
	baseURL       string
	apiVersion    string
	phoneNumberID string
	token         string
	http          *http.Client
	log           *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion:    cfg.APIVersion,
		phoneNumberID: cfg.PhoneNumberID,
		token:         cfg.WhatsAppToken,
		http:          &http.Client{Timeout: cfg.ProviderTimeout},
		log:           log,
	}
}

// --- Message Structures ---

type GenericMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *TextObj     `json:"text,omitempty"`
	Image            *MediaObj    `json:"image,omitempty"`
	Document         *MediaObj    `json:"document,omitempty"`
	Template         *TemplateObj `json:"template,omitempty"`
}

type TextObj struct {
	Body string `json:"body"`
}

type MediaObj struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type TemplateObj struct {
	Name     string      `json:"name"`
	Language LanguageObj `json:"language"`
}

type LanguageObj struct {
	Code string `json:"code"`
}

// SendResult is the normalized provider response. ExternalID is empty when
// the provider omits messages[0].id.
type SendResult struct {
	ExternalID string
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// ProviderError is returned for transport failures and non-2xx responses.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
	}
	return "provider error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// --- Helper Functions ---

func (c *Client) messagesURL() string {
	return fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
}

func (c *Client) sendRequest(ctx context.Context, method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: genericProviderError, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: genericProviderError, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := genericProviderError
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return respBody, &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	return respBody, nil
}

// recipient validates an E.164 number and returns it without the leading '+'.
func recipient(to string) (string, error) {
	to = strings.TrimSpace(to)
	if !e164.MatchString(to) {
		return "", ErrInvalidRecipient
	}
	return strings.TrimPrefix(to, "+"), nil
}

// --- Messaging Methods ---

func (c *Client) SendRawMessage(ctx context.Context, msg GenericMessage) (*SendResult, error) {
	msg.MessagingProduct = "whatsapp"
	start := time.Now()
	respBody, err := c.sendRequest(ctx, http.MethodPost, c.messagesURL(), msg)
	if err != nil {
		c.log.Warn("whatsapp send failed",
			zap.String("type", msg.Type),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	result := &SendResult{}
	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.log.Warn("whatsapp response not understood", zap.Error(err))
	} else if len(parsed.Messages) > 0 {
		result.ExternalID = parsed.Messages[0].ID
	}
	c.log.Debug("whatsapp message sent",
		zap.String("type", msg.Type),
		zap.String("external_id", result.ExternalID),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (c *Client) SendMessage(ctx context.Context, to, body string) (*SendResult, error) {
	digits, err := recipient(to)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyContent
	}
	return c.SendRawMessage(ctx, GenericMessage{
		To:   digits,
		Type: "text",
		Text: &TextObj{Body: body},
	})
}

func (c *Client) SendTemplateMessage(ctx context.Context, to, templateName, languageCode string) (*SendResult, error) {
	digits, err := recipient(to)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(templateName) == "" {
		return nil, ErrEmptyContent
	}
	return c.SendRawMessage(ctx, GenericMessage{
		To:   digits,
		Type: "template",
		Template: &TemplateObj{
			Name:     templateName,
			Language: LanguageObj{Code: languageCode},
		},
	})
}

// SendMediaMessage sends an image or document by link. mediaType is
// "image" or "document".
func (c *Client) SendMediaMessage(ctx context.Context, to, mediaType, link, caption string) (*SendResult, error) {
	digits, err := recipient(to)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(link) == "" {
		return nil, ErrEmptyContent
	}
	msg := GenericMessage{To: digits, Type: mediaType}
	media := &MediaObj{Link: link, Caption: caption}
	switch mediaType {
	case "image":
		msg.Image = media
	case "document":
		msg.Document = media
	default:
		return nil, errors.New("unsupported media type " + mediaType)
	}
	return c.SendRawMessage(ctx, msg)
}

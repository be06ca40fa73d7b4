package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Webhook posts each error report as JSON to an operator endpoint.
type Webhook struct {
	url    string
	token  string
	client *http.Client
}

type WebhookConfig struct {
	URL     string
	Token   string // sent as a bearer token when set
	Timeout time.Duration
}

// Event is the JSON body sent for each report.
type Event struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Error   string    `json:"error,omitempty"`
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		url:    cfg.URL,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) NotifyOnError(ctx context.Context, message string, err error) error {
	ev := Event{ID: uuid.NewString(), Time: time.Now().UTC(), Message: message}
	if err != nil {
		ev.Error = err.Error()
	}
	return w.postJSON(ctx, ev)
}

func (w *Webhook) postJSON(ctx context.Context, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.Newf("webhook POST %s failed: %s", w.url, resp.Status)
	}
	return nil
}

package mailerrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"bookswap/util/httpx"
)

type httpRepo struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewHTTP posts messages to a mail-relay endpoint.
func NewHTTP(apiURL, apiKey string) Repo {
	return &httpRepo{apiURL: apiURL, apiKey: apiKey, client: httpx.Client()}
}

func (r *httpRepo) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	body := map[string]any{
		"to":      email,
		"from":    "noreply@bookswap.local",
		"subject": "Password Reset Request",
		"text":    "Click the link to reset your password: " + resetLink,
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay send failed: %s", resp.Status)
	}
	return nil
}

type logRepo struct{ log *slog.Logger }

// NewLog logs the reset link instead of mailing it. Dev fallback when no
// relay is configured.
func NewLog(log *slog.Logger) Repo { return &logRepo{log: log} }

func (r *logRepo) SendPasswordReset(_ context.Context, email, resetLink string) error {
	r.log.Info("password reset link (mail relay not configured)", "email", email, "link", resetLink)
	return nil
}

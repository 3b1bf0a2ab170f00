package billing

import (
	"bytes"
	"caltrack/domain"
	"caltrack/internal/utils"
	"caltrack/internal/utils/mailing"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type (
	// Alerter notifies an operator that a reconciliation pass saw errors.
	Alerter interface {
		ReconcileFailed(ctx context.Context, actor string, result domain.ReconcileResult) error
	}

	webhookAlerter struct {
		client *http.Client
	}
)

func NewAlerter() Alerter {
	return &webhookAlerter{client: &http.Client{Timeout: 10 * time.Second}}
}

func (a *webhookAlerter) ReconcileFailed(ctx context.Context, actor string, result domain.ReconcileResult) error {
	var firstErr error

	if url := utils.GetConfig("ALERT_WEBHOOK_URL"); url != "" {
		if err := a.postWebhook(ctx, url, actor, result); err != nil {
			firstErr = err
		}
	}

	if email := utils.GetConfig("ALERT_EMAIL"); email != "" {
		subject := "Subscription reconciliation errors"
		body := fmt.Sprintf(
			"<p>Reconcile run by <b>%s</b>: checked=%d updated=%d errors=%d</p>",
			actor, result.Checked, result.Updated, result.Errors,
		)
		if err := mailing.SendMail(email, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (a *webhookAlerter) postWebhook(ctx context.Context, url string, actor string, result domain.ReconcileResult) error {
	payload, err := json.Marshal(map[string]interface{}{
		"source":  "caltrack",
		"kind":    "subscription_reconcile_errors",
		"actor":   actor,
		"checked": result.Checked,
		"updated": result.Updated,
		"errors":  result.Errors,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Package webhook entrega notificaciones como POST JSON a una URL fija.
package webhook

import (
	"context"
	"fmt"
	"time"

	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/ports/notify"
)

type Notifier struct {
	url    string
	client *httpclient.Client
}

var _ notify.Notifier = (*Notifier)(nil)

func New(url string, timeout time.Duration, client *httpclient.Client) (*Notifier, error) {
	if err := httpclient.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}
	if client == nil {
		client = httpclient.New(timeout, nil)
	}
	return &Notifier{url: url, client: client}, nil
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Message) error {
	headers := map[string]string{"X-Notification-Kind": msg.Kind}
	if err := n.client.PostJSON(ctx, n.url, headers, msg); err != nil {
		return fmt.Errorf("webhook: notify %s: %w", msg.Kind, err)
	}
	return nil
}

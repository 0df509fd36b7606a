package notify

import (
	"context"
	"time"
)

// Message es lo que se entrega al canal del equipo (webhook, log).
type Message struct {
	Kind    string    `json:"tipo"`
	Title   string    `json:"titulo"`
	Text    string    `json:"texto"`
	SentAt  time.Time `json:"enviado_en"`
	Payload any       `json:"datos,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

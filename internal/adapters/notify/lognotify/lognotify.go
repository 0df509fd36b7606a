// Package lognotify escribe las notificaciones en el log; es el canal por
// defecto cuando no hay webhook configurado.
package lognotify

import (
	"context"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/notify"
)

type Notifier struct {
	log logger.Logger
}

var _ notify.Notifier = (*Notifier)(nil)

func New(log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{log: log}
}

func (n *Notifier) Notify(_ context.Context, msg notify.Message) error {
	n.log.Info("notification", map[string]any{
		"kind":  msg.Kind,
		"title": msg.Title,
		"text":  msg.Text,
	})
	return nil
}

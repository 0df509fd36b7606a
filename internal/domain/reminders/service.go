package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/notify"
)

// OpenRequests lo implementa adoptions.Service.
type OpenRequests interface {
	ListOpen(ctx context.Context) ([]adoptions.Request, error)
}

type Service struct {
	requests OpenRequests
	rules    []Rule
	notifier notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(requests OpenRequests, rules []Rule, notifier notify.Notifier, m *metrics.Metrics) *Service {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Service{
		requests: requests,
		rules:    rules,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *Service) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

type Report struct {
	GeneratedAt time.Time  `json:"generado_en"`
	Total       int        `json:"total"`
	Urgent      int        `json:"urgentes"`
	Items       []Reminder `json:"recordatorios"`
	Sent        bool       `json:"enviado"`
	SendError   string     `json:"error_envio,omitempty"`
}

// Run evalúa las solicitudes abiertas. Con send, entrega el listado al
// notifier; un fallo de entrega se informa en el reporte sin cortar.
func (s *Service) Run(ctx context.Context, send bool) (Report, error) {
	reqs, err := s.requests.ListOpen(ctx)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	items := Evaluate(reqs, s.rules, now)

	rep := Report{GeneratedAt: now, Total: len(items), Items: items}
	for _, it := range items {
		if it.Severity == TierUrgent {
			rep.Urgent++
		}
	}
	s.metrics.SetRemindersOverdue(rep.Urgent, rep.Total-rep.Urgent)

	log := logger.FromContext(ctx)
	log.Info("reminders evaluated", map[string]any{
		"open":    len(reqs),
		"overdue": rep.Total,
		"urgent":  rep.Urgent,
	})

	if !send || rep.Total == 0 {
		return rep, nil
	}
	if s.notifier == nil {
		return rep, apperr.WithMessage(apperr.ErrBadRequest, "no hay canal de notificación configurado")
	}
	msg := notify.Message{
		Kind:    "recordatorios",
		Title:   fmt.Sprintf("%d solicitudes vencidas (%d urgentes)", rep.Total, rep.Urgent),
		Text:    summary(items),
		SentAt:  now,
		Payload: items,
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		log.Warn("reminders delivery failed", map[string]any{"err": err.Error()})
		rep.SendError = err.Error()
		return rep, nil
	}
	rep.Sent = true
	log.Info("reminders delivered", map[string]any{"count": rep.Total})
	return rep, nil
}

func summary(items []Reminder) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("[%s] %s", it.Severity, it.Message))
	}
	return strings.Join(lines, "\n")
}

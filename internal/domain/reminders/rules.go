package reminders

import (
	"fmt"
	"sort"
	"time"

	"pet-adoption/internal/config"
	"pet-adoption/internal/domain/adoptions"
)

// Tier es la severidad de un recordatorio.
// @Enum urgente, normal
type Tier string

const (
	TierUrgent Tier = "urgente"
	TierNormal Tier = "normal"
)

// Rule: una solicitud en Status por más de Days días está vencida.
type Rule struct {
	Status adoptions.Status `json:"estado"`
	Days   int              `json:"dias"`
	Tier   Tier             `json:"severidad"`
}

// DefaultRules no cubre estados terminales.
var DefaultRules = []Rule{
	{Status: adoptions.StatusPending, Days: 2, Tier: TierUrgent},
	{Status: adoptions.StatusReview, Days: 5, Tier: TierNormal},
	{Status: adoptions.StatusInterview, Days: 7, Tier: TierNormal},
	{Status: adoptions.StatusApproved, Days: 3, Tier: TierUrgent},
}

// RulesFromConfig usa las reglas por defecto si no hay ninguna configurada.
// La config ya viene validada.
func RulesFromConfig(cfg []config.RuleConfig) []Rule {
	if len(cfg) == 0 {
		return append([]Rule(nil), DefaultRules...)
	}
	out := make([]Rule, 0, len(cfg))
	for _, rc := range cfg {
		out = append(out, Rule{Status: adoptions.Status(rc.Status), Days: rc.Days, Tier: Tier(rc.Tier)})
	}
	return out
}

type Reminder struct {
	RequestID     string           `json:"solicitud_id"`
	DogID         string           `json:"perrito_id"`
	DogName       string           `json:"perrito_nombre"`
	ApplicantName string           `json:"solicitante"`
	Email         string           `json:"email"`
	Status        adoptions.Status `json:"estado"`
	Days          int              `json:"dias"`
	Limit         int              `json:"limite"`
	Severity      Tier             `json:"severidad"`
	Message       string           `json:"mensaje"`
}

// ElapsedDays cuenta días completos desde el último cambio de estado
// (o updated_at si nunca se registró).
func ElapsedDays(req adoptions.Request, now time.Time) int {
	since := req.StatusChangedAt
	if since.IsZero() {
		since = req.UpdatedAt
	}
	if since.IsZero() || now.Before(since) {
		return 0
	}
	return int(now.Sub(since) / (24 * time.Hour))
}

// Evaluate devuelve las solicitudes vencidas: urgentes primero, después
// por días de atraso descendente.
func Evaluate(reqs []adoptions.Request, rules []Rule, now time.Time) []Reminder {
	byStatus := make(map[adoptions.Status]Rule, len(rules))
	for _, r := range rules {
		byStatus[r.Status] = r
	}

	out := make([]Reminder, 0)
	for _, req := range reqs {
		rule, ok := byStatus[req.Status]
		if !ok {
			continue
		}
		d := ElapsedDays(req, now)
		if d <= rule.Days {
			continue
		}
		out = append(out, Reminder{
			RequestID:     req.ID,
			DogID:         req.DogID,
			DogName:       req.DogName,
			ApplicantName: req.ApplicantName,
			Email:         req.Email,
			Status:        req.Status,
			Days:          d,
			Limit:         rule.Days,
			Severity:      rule.Tier,
			Message:       message(req, d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity == TierUrgent
		}
		return out[i].Days > out[j].Days
	})
	return out
}

func message(req adoptions.Request, days int) string {
	switch req.Status {
	case adoptions.StatusPending:
		return fmt.Sprintf("La solicitud de %s por %s lleva %d días sin revisar.", req.ApplicantName, req.DogName, days)
	case adoptions.StatusReview:
		return fmt.Sprintf("La solicitud de %s por %s lleva %d días en revisión. Coordinar entrevista o responder.", req.ApplicantName, req.DogName, days)
	case adoptions.StatusInterview:
		return fmt.Sprintf("La entrevista con %s por %s lleva %d días sin resolución.", req.ApplicantName, req.DogName, days)
	case adoptions.StatusApproved:
		return fmt.Sprintf("%s fue aprobado para %s hace %d días y la entrega no se completó.", req.ApplicantName, req.DogName, days)
	}
	return fmt.Sprintf("La solicitud de %s por %s lleva %d días en estado %s.", req.ApplicantName, req.DogName, days, req.Status)
}

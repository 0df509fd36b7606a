// Package app arma los servicios de dominio sobre el storage elegido
// (Postgres si hay DB, memoria si no). Lo usan el servidor HTTP y los
// subcomandos de la CLI.
package app

import (
	"database/sql"
	"fmt"

	mem "pet-adoption/internal/adapters/storage/memory"
	pg "pet-adoption/internal/adapters/storage/postgres"

	"pet-adoption/internal/adapters/notify/lognotify"
	"pet-adoption/internal/adapters/notify/webhook"
	"pet-adoption/internal/config"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/businesses"
	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/domain/events"
	"pet-adoption/internal/domain/imports"
	"pet-adoption/internal/domain/medical"
	"pet-adoption/internal/domain/reminders"
	"pet-adoption/internal/domain/vaccinations"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/qrcard"
	"pet-adoption/internal/ports/notify"
)

type Deps struct {
	Config  *config.Config
	DB      *sql.DB // nil = in-memory
	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Notifier opcional; por defecto webhook si hay URL, log si no.
	Notifier notify.Notifier
}

type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics

	Dogs         *dogs.Service
	Businesses   *businesses.Service
	Adoptions    *adoptions.Service
	Medical      *medical.Service
	Vaccinations *vaccinations.Service
	Events       *events.Service
	Imports      *imports.Service
	Reminders    *reminders.Service

	Storage string // "postgres" | "memory"
}

type repos struct {
	dogs         dogs.Repository
	businesses   businesses.Repository
	adoptions    adoptions.Repository
	medical      medical.Repository
	vaccinations vaccinations.Repository
	events       events.Repository
}

func New(d Deps) (*App, error) {
	if d.Config == nil {
		return nil, fmt.Errorf("app: config required")
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}

	var (
		r       repos
		storage string
	)
	if d.DB != nil {
		r = repos{
			dogs:         pg.NewDogsRepo(d.DB),
			businesses:   pg.NewBusinessesRepo(d.DB),
			adoptions:    pg.NewAdoptionsRepo(d.DB),
			medical:      pg.NewMedicalRepo(d.DB),
			vaccinations: pg.NewVaccinationsRepo(d.DB),
			events:       pg.NewEventsRepo(d.DB),
		}
		storage = "postgres"
	} else {
		r = repos{
			dogs:         mem.NewDogRepo(),
			businesses:   mem.NewBusinessRepo(),
			adoptions:    mem.NewAdoptionRepo(),
			medical:      mem.NewMedicalRepo(),
			vaccinations: mem.NewVaccinationRepo(),
			events:       mem.NewEventRepo(),
		}
		storage = "memory"
	}

	style, err := qrStyle(d.Config.QR)
	if err != nil {
		return nil, err
	}

	notifier := d.Notifier
	if notifier == nil {
		notifier, err = defaultNotifier(d.Config.Notifications, d.Logger)
		if err != nil {
			return nil, err
		}
	}

	// Services por módulo
	dogsSvc := dogs.NewService(r.dogs)
	businessesSvc := businesses.NewService(r.businesses, businesses.Options{
		BaseURL: d.Config.Server.BaseURL,
		Style:   style,
		Metrics: d.Metrics,
	})
	adoptionsSvc := adoptions.NewService(r.adoptions, dogsSvc, d.Metrics)
	medicalSvc := medical.NewService(r.medical, dogsSvc)
	vaccinationsSvc := vaccinations.NewService(r.vaccinations, dogsSvc, medicalSvc)
	eventsSvc := events.NewService(r.events)
	importsSvc := imports.NewService(d.Metrics,
		dogs.NewImportTarget(dogsSvc),
		businesses.NewImportTarget(businessesSvc),
	)
	remindersSvc := reminders.NewService(adoptionsSvc, reminders.RulesFromConfig(d.Config.Reminders.Rules), notifier, d.Metrics)

	return &App{
		Config:       d.Config,
		Logger:       d.Logger,
		Metrics:      d.Metrics,
		Dogs:         dogsSvc,
		Businesses:   businessesSvc,
		Adoptions:    adoptionsSvc,
		Medical:      medicalSvc,
		Vaccinations: vaccinationsSvc,
		Events:       eventsSvc,
		Imports:      importsSvc,
		Reminders:    remindersSvc,
		Storage:      storage,
	}, nil
}

func qrStyle(c config.QRConfig) (qrcard.Style, error) {
	style := qrcard.DefaultStyle()
	var err error
	if c.Primary != "" {
		if style.Primary, err = qrcard.ParseHexColor(c.Primary); err != nil {
			return qrcard.Style{}, fmt.Errorf("app: qr.primary: %w", err)
		}
	}
	if c.Secondary != "" {
		if style.Secondary, err = qrcard.ParseHexColor(c.Secondary); err != nil {
			return qrcard.Style{}, fmt.Errorf("app: qr.secondary: %w", err)
		}
	}
	if c.Foreground != "" {
		if style.Foreground, err = qrcard.ParseHexColor(c.Foreground); err != nil {
			return qrcard.Style{}, fmt.Errorf("app: qr.foreground: %w", err)
		}
	}
	if c.Width > 0 {
		style.Width = c.Width
	}
	return style, nil
}

func defaultNotifier(c config.NotificationsConfig, log logger.Logger) (notify.Notifier, error) {
	if c.WebhookURL == "" {
		return lognotify.New(log.With(map[string]any{"component": "notify"})), nil
	}
	n, err := webhook.New(c.WebhookURL, c.Timeout, nil)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return n, nil
}

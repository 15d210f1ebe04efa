package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"

	"github.com/wolfman30/botica-chatbot/internal/assistant"
	"github.com/wolfman30/botica-chatbot/internal/calendar"
	appconfig "github.com/wolfman30/botica-chatbot/internal/config"
	"github.com/wolfman30/botica-chatbot/internal/dialogue"
	"github.com/wolfman30/botica-chatbot/internal/gcp"
	"github.com/wolfman30/botica-chatbot/internal/http/handlers"
	"github.com/wolfman30/botica-chatbot/internal/inventory"
	"github.com/wolfman30/botica-chatbot/internal/notify"
	"github.com/wolfman30/botica-chatbot/internal/observability/metrics"
	"github.com/wolfman30/botica-chatbot/internal/session"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// hygieneInstructions seeds the Gemini backend. OpenAI assistants carry their
// own instructions server side.
const hygieneInstructions = "Eres BOTica, el asistente virtual de una clínica. " +
	"Respondes en español, con un tono amable y breve, preguntas sobre buenos hábitos de higiene. " +
	"Cuando enumeres recomendaciones usa una lista numerada. " +
	"No des diagnósticos ni indiques medicamentos; sugiere agendar una cita si la consulta lo requiere."

// Collaborators holds the external services the engine talks to. A nil field
// means the collaborator could not be initialised.
type Collaborators struct {
	Location     *time.Location
	Slots        *calendar.Resolver
	Booker       *calendar.Writer
	Medications  *inventory.Lookup
	Assistant    *assistant.Bridge
	Notifier     notify.EmailSender
	Availability handlers.Availability

	closers []func() error
}

// Options adjusts collaborator construction.
type Options struct {
	Metrics *metrics.ChatMetrics
	// GoogleClientOptions replace the service-account credentials for the
	// Calendar and Sheets clients when set.
	GoogleClientOptions []option.ClientOption
}

// BuildCollaborators initialises every collaborator it has configuration for.
// Missing or broken configuration is logged and leaves that collaborator nil;
// only an unusable business UTC offset is an error.
func BuildCollaborators(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, opts Options) (*Collaborators, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	loc, err := calendar.ParseUTCOffset(cfg.BusinessUTCOffset)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: business utc offset: %w", err)
	}
	c := &Collaborators{Location: loc}

	googleOpts := func(scope string) ([]option.ClientOption, error) {
		if len(opts.GoogleClientOptions) > 0 {
			return opts.GoogleClientOptions, nil
		}
		sa, err := gcp.LoadServiceAccount(gcp.Source{
			ServiceAccountJSON: cfg.GoogleServiceAccountKey,
			ClientEmail:        cfg.GoogleClientEmail,
			PrivateKey:         cfg.GooglePrivateKey,
			ProjectID:          cfg.GoogleProjectID,
		})
		if err != nil {
			return nil, err
		}
		return []option.ClientOption{sa.ClientOption(ctx, scope)}, nil
	}

	c.buildCalendar(ctx, cfg, logger, loc, googleOpts)
	c.buildInventory(ctx, cfg, logger, googleOpts)
	c.buildAssistant(ctx, cfg, logger, opts.Metrics)
	c.buildNotifier(cfg, logger)

	logger.Info("collaborators initialised",
		"calendar", c.Availability.Calendar,
		"inventory", c.Availability.Inventory,
		"assistant", c.Availability.Assistant,
	)
	return c, nil
}

func (c *Collaborators) buildCalendar(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, loc *time.Location, googleOpts func(string) ([]option.ClientOption, error)) {
	calendarID := strings.TrimSpace(cfg.GoogleCalendarID)
	if calendarID == "" {
		logger.Warn("calendar not configured", "reason", "GOOGLE_CALENDAR_ID empty")
		return
	}
	clientOpts, err := googleOpts(calendar.Scope)
	if err != nil {
		logger.Error("calendar credentials unavailable", "error", err)
		return
	}
	backend, err := calendar.NewGoogleBackend(ctx, loc, clientOpts...)
	if err != nil {
		logger.Error("calendar client init failed", "error", err)
		return
	}
	c.Slots = calendar.NewResolver(backend, calendarID, calendar.DefaultBusinessHours(loc), logger)
	c.Booker = calendar.NewWriter(backend, calendarID, cfg.BusinessTimezone, logger)
	c.Availability.Calendar = true
}

func (c *Collaborators) buildInventory(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, googleOpts func(string) ([]option.ClientOption, error)) {
	sheetID := strings.TrimSpace(cfg.GoogleSheetsID)
	if sheetID == "" {
		logger.Warn("inventory not configured", "reason", "GOOGLE_SHEETS_ID empty")
		return
	}
	clientOpts, err := googleOpts(inventory.Scope)
	if err != nil {
		logger.Error("inventory credentials unavailable", "error", err)
		return
	}
	backend, err := inventory.NewSheetsBackend(ctx, clientOpts...)
	if err != nil {
		logger.Error("sheets client init failed", "error", err)
		return
	}
	c.Medications = inventory.NewLookup(backend, sheetID, cfg.InventoryRange, logger)
	c.Availability.Inventory = true
}

func (c *Collaborators) buildAssistant(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.ChatMetrics) {
	if !cfg.AssistantConfigured() {
		logger.Warn("assistant not configured", "provider", cfg.AssistantProvider)
		return
	}

	var backend assistant.Backend
	switch cfg.AssistantProvider {
	case "gemini":
		gemini, err := assistant.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, hygieneInstructions)
		if err != nil {
			logger.Error("gemini init failed", "error", err)
			return
		}
		c.closers = append(c.closers, gemini.Close)
		backend = gemini
	default:
		client, err := assistant.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIAssistantID, assistant.WithBaseURL(cfg.OpenAIBaseURL))
		if err != nil {
			logger.Error("openai init failed", "error", err)
			return
		}
		backend = client
	}

	policy := assistant.PollPolicy{
		Interval:    cfg.AssistantPollInterval,
		MaxInterval: cfg.AssistantMaxPollInterval,
		Timeout:     cfg.AssistantTimeout,
	}
	c.Assistant = assistant.NewBridge(backend, policy, assistant.WithLogger(logger), assistant.WithMetrics(m))
	c.Availability.Assistant = true
}

func (c *Collaborators) buildNotifier(cfg *appconfig.Config, logger *logging.Logger) {
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		c.Notifier = sender
		return
	}
	c.Notifier = notify.NewStubEmailSender(logger)
}

// Close releases collaborator clients that hold connections.
func (c *Collaborators) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildEngine wires the dialogue engine. Collaborators left nil stay nil
// interfaces so the engine reports them unavailable.
func BuildEngine(store session.Store, c *Collaborators, logger *logging.Logger, m *metrics.ChatMetrics) (*dialogue.Engine, error) {
	cfg := dialogue.Config{
		Store:   store,
		Logger:  logger,
		Metrics: m,
	}
	if c != nil {
		cfg.Location = c.Location
		cfg.Notifier = c.Notifier
		if c.Slots != nil {
			cfg.Slots = c.Slots
		}
		if c.Booker != nil {
			cfg.Booker = c.Booker
		}
		if c.Medications != nil {
			cfg.Medications = c.Medications
		}
		if c.Assistant != nil {
			cfg.Assistant = c.Assistant
		}
	}
	return dialogue.New(cfg)
}

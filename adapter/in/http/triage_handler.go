// Package http exposes the triage service over a JSON API.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/imaglide/eisenhower-triage/core/domain"
	"github.com/imaglide/eisenhower-triage/core/port/in"
	"github.com/imaglide/eisenhower-triage/core/port/out"
)

type TriageHandler struct {
	service  in.TriageService
	results  out.TriageResultStore
	profiles out.SenderProfileStore
	log      zerolog.Logger
}

func NewTriageHandler(service in.TriageService, results out.TriageResultStore, profiles out.SenderProfileStore, log zerolog.Logger) *TriageHandler {
	return &TriageHandler{
		service:  service,
		results:  results,
		profiles: profiles,
		log:      log.With().Str("component", "triage_handler").Logger(),
	}
}

func (h *TriageHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/triage", h.Classify)
	api.Get("/triage/recent", h.Recent)
	api.Get("/triage/:id", h.GetResult)
	api.Get("/senders/:email/profile", h.GetSenderProfile)
	api.Put("/senders/:email/profile", h.UpsertSenderProfile)
}

type classifyRequest struct {
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
}

type classifyResponse struct {
	MessageID string                            `json:"message_id"`
	Results   map[string]domain.StrategyOutcome `json:"results"`
	Summary   domain.AggregateSummary           `json:"summary"`
	Consensus string                            `json:"consensus_human"`
}

func (h *TriageHandler) Classify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Subject == "" && req.Body == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "subject or body required")
	}

	messageID, outcomes, err := h.service.ClassifyAndStore(c.Context(), req.MessageID, req.Subject, req.Sender, req.Body)
	if err != nil {
		// Classification itself succeeded; report the outcomes and note
		// the persistence failure.
		h.log.Error().Err(err).Str("message_id", messageID).Msg("failed to persist triage results")
	}

	summary := h.service.Summarize(outcomes)
	return c.JSON(classifyResponse{
		MessageID: messageID,
		Results:   outcomes,
		Summary:   summary,
		Consensus: summary.ConsensusPriority.Human(),
	})
}

func (h *TriageHandler) GetResult(c *fiber.Ctx) error {
	messageID := c.Params("id")

	record, err := h.results.Get(c.Context(), messageID)
	if err != nil {
		h.log.Error().Err(err).Str("message_id", messageID).Msg("failed to load triage result")
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed to load triage result")
	}
	if record == nil {
		return ErrorResponse(c, fiber.StatusNotFound, "triage result not found")
	}
	return c.JSON(record)
}

func (h *TriageHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	records, err := h.results.Recent(c.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list triage results")
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed to list triage results")
	}
	return c.JSON(fiber.Map{"results": records, "count": len(records)})
}

func (h *TriageHandler) GetSenderProfile(c *fiber.Ctx) error {
	email := c.Params("email")

	profile, err := h.profiles.GetByEmail(c.Context(), email)
	if err != nil {
		h.log.Error().Err(err).Str("email", email).Msg("failed to load sender profile")
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed to load sender profile")
	}
	if profile == nil {
		return ErrorResponse(c, fiber.StatusNotFound, "sender profile not found")
	}
	return c.JSON(fiber.Map{"email": email, "profile": profile})
}

func (h *TriageHandler) UpsertSenderProfile(c *fiber.Ctx) error {
	email := c.Params("email")

	var profile map[string]any
	if err := c.BodyParser(&profile); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid profile body")
	}
	if len(profile) == 0 {
		return ErrorResponse(c, fiber.StatusBadRequest, "profile must not be empty")
	}

	if err := h.profiles.Upsert(c.Context(), email, profile); err != nil {
		h.log.Error().Err(err).Str("email", email).Msg("failed to store sender profile")
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed to store sender profile")
	}
	return c.JSON(fiber.Map{"email": email, "updated": true})
}

func (h *TriageHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ErrorResponse sends a standardized error payload.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hireloop/hireloop-api/internal/dto"
	"github.com/hireloop/hireloop-api/internal/service"
	"github.com/hireloop/hireloop-api/internal/utils"
)

// SubmissionHandler exposes the assessment submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group. The run route
// takes an extra middleware slot so the caller can rate limit it.
func (h *SubmissionHandler) Register(router fiber.Router, runLimiter fiber.Handler) {
	if runLimiter == nil {
		runLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Post("", h.create)
	router.Post("/run", runLimiter, h.run)
	router.Post("/final", h.finalSubmit)
	router.Get("/candidate/:candidateID", h.listByCandidate)
	router.Get("/drive/:driveID", h.listByDrive)
	router.Get("/:id", h.get)
	router.Get("/:id/statistics", h.statistics)
	router.Post("/:id/feedback", h.feedback)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, created, err := h.service.CreateOrGet(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if created {
		return utils.SendCreated(c, "submission created", response)
	}
	return utils.SendSuccess(c, "submission retrieved", response)
}

func (h *SubmissionHandler) run(c *fiber.Ctx) error {
	var payload dto.RunQuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.RunQuestion(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question graded", response)
}

func (h *SubmissionHandler) finalSubmit(c *fiber.Ctx) error {
	var payload dto.FinalSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.FinalSubmit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment submitted", response)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", response)
}

func (h *SubmissionHandler) statistics(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Statistics(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "statistics retrieved", response)
}

func (h *SubmissionHandler) listByCandidate(c *fiber.Ctx) error {
	candidateID, err := parseUintParam(c, "candidateID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	responses, err := h.service.ListByCandidate(c.Context(), candidateID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", responses)
}

func (h *SubmissionHandler) listByDrive(c *fiber.Ctx) error {
	driveID, err := parseUintParam(c, "driveID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	responses, err := h.service.ListByDrive(c.Context(), driveID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", responses)
}

func (h *SubmissionHandler) feedback(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Feedback(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback generated", response)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEmptySourceCode):
		return utils.SendError(c, fiber.StatusBadRequest, "source code must not be empty")
	case errors.Is(err, service.ErrUnsupportedLanguage):
		return utils.SendError(c, fiber.StatusBadRequest, "language not supported")
	case errors.Is(err, service.ErrNoQuestionsInDrive):
		return utils.SendError(c, fiber.StatusBadRequest, "drive has no coding questions")
	case errors.Is(err, service.ErrNoTestCases):
		return utils.SendError(c, fiber.StatusBadRequest, "question has no test cases")
	case errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrDriveNotFound),
		errors.Is(err, service.ErrCandidateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrReviewerUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "reviewer unavailable")
	case errors.Is(err, service.ErrSubmissionOutOfSync):
		h.logger.Error().Err(err).Msg("submission state out of sync")
		return utils.SendError(c, fiber.StatusConflict, "submission state changed, retry the request")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("submission operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

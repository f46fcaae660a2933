package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/services"
	"jornada-tracker/internal/validation"
)

// ShiftHandler serves validation, totals and duplication
type ShiftHandler struct {
	services  *services.ServiceContainer
	reader    services.ShiftReader
	validator *validation.ActivityValidator
	input     *validation.Validator
	logger    *log.Logger
}

// NewShiftHandler creates a ShiftHandler
func NewShiftHandler(svc *services.ServiceContainer, reader services.ShiftReader, logger *log.Logger) *ShiftHandler {
	return &ShiftHandler{
		services:  svc,
		reader:    reader,
		validator: validation.NewActivityValidator(),
		input:     validation.NewValidator(),
		logger:    logger,
	}
}

// draftRequest is a draft posted by a client
type draftRequest struct {
	Date       string            `json:"fecha"`
	Operator   string            `json:"operario"`
	Activities []domain.Activity `json:"actividades"`
}

// shift converts the request into a draft. Clock times that are present
// but not HH:MM are rejected here, since the payload builder would
// silently drop them.
func (r draftRequest) shift(v *validation.Validator) (domain.Shift, error) {
	shift := domain.Shift{OperatorID: v.TrimAndValidateString(r.Operator), Activities: r.Activities}

	ve := validation.NewValidationError()
	for i, a := range r.Activities {
		for _, clock := range []struct{ field, value string }{{"horaInicio", a.StartTime}, {"horaFin", a.EndTime}} {
			if v.IsNonEmptyString(clock.value) && !v.IsValidClockTime(clock.value) {
				ve.AddInvalidFormatError(fmt.Sprintf("actividad %d %s", i+1, clock.field), clock.value, "HH:MM")
			}
		}
	}
	if ve.HasErrors() {
		return shift, errors.NewInvalidInputError(strings.Join(ve.Fields(), ", "), ve.Errors[0].Value, ve.GetUserFriendlyMessage())
	}

	date := v.TrimAndValidateString(r.Date)
	if date == "" {
		return shift, nil
	}
	parsed, err := domain.ParseDate(date)
	if err != nil {
		return shift, errors.NewInvalidInputError("fecha", r.Date, "se esperaba AAAA-MM-DD")
	}
	shift.Date = parsed
	return shift, nil
}

// Health handles GET /api/health
func (h *ShiftHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

// ValidateActivity handles POST /api/activities/validate
func (h *ShiftHandler) ValidateActivity(c *fiber.Ctx) error {
	var a domain.Activity
	if err := c.BodyParser(&a); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "JSON inválido"})
	}
	missing := h.validator.MissingFields(a)
	return c.JSON(fiber.Map{"valid": len(missing) == 0, "missing": missing})
}

// ValidateShift handles POST /api/jornadas/validate
func (h *ShiftHandler) ValidateShift(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "JSON inválido"})
	}
	shift, err := req.shift(h.input)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.services.SubmissionService.ValidateDraft(shift); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"valid": false,
			"error": errors.GetUserMessage(err),
		})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// DraftSummary handles POST /api/jornadas/summary
func (h *ShiftHandler) DraftSummary(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "JSON inválido"})
	}
	shift, err := req.shift(h.input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(services.AggregateDraft(shift))
}

// ShiftSummary handles GET /api/jornadas/:id/summary
func (h *ShiftHandler) ShiftSummary(c *fiber.Ctx) error {
	totals, err := h.services.ReportingService.ShiftTotals(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(totals)
}

// Duplicate handles GET /api/jornadas/:id/duplicate
func (h *ShiftHandler) Duplicate(c *fiber.Ctx) error {
	shift, err := h.reader.GetShift(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	activities := h.services.DuplicationService.Transform(c.UserContext(), *shift)
	return c.JSON(fiber.Map{"actividades": activities})
}

func (h *ShiftHandler) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError && errors.ShouldLogError(err) {
		h.logger.Error("request failed", append([]interface{}{"path", c.Path(), "err", err}, errors.LogFields(err)...)...)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": errors.GetUserMessage(err),
		"code":  errors.GetErrorCode(err),
	})
}

// statusFor maps an error to an HTTP status
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeNotFound:
		return fiber.StatusNotFound
	case errors.ErrorTypeValidation:
		return fiber.StatusUnprocessableEntity
	case errors.ErrorTypeInvalidInput:
		return fiber.StatusBadRequest
	case errors.ErrorTypeConflict:
		return fiber.StatusConflict
	case errors.ErrorTypeTransport, errors.ErrorTypeLookup, errors.ErrorTypeSubmission:
		return fiber.StatusBadGateway
	case errors.ErrorTypeTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

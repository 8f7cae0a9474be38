package handlers

import (
	"github.com/amirphl/spam-guard/app/dto"
	businessflow "github.com/amirphl/spam-guard/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type CallEventHandlerInterface interface {
	Record(c fiber.Ctx) error
}

type CallEventHandler struct {
	flow      businessflow.CallEventFlow
	validator *validator.Validate
}

func NewCallEventHandler(flow businessflow.CallEventFlow) CallEventHandlerInterface {
	return &CallEventHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

// Record appends a call event to the log
// @Summary Record call event
// @Tags Call Events
// @Accept json
// @Produce json
// @Param request body dto.RecordCallEventRequest true "Call event"
// @Success 200 {object} dto.MessageResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /registrar-evento [post]
func (h *CallEventHandler) Record(c fiber.Ctx) error {
	var req dto.RecordCallEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusUnprocessableEntity, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}
	if handled, err := validate(c, h.validator, &req); handled {
		return err
	}

	ctx, cancel := createRequestContext(c, "/registrar-evento")
	defer cancel()

	if _, err := h.flow.Append(ctx, req.Number, req.EventType, req.Source, req.Details); err != nil {
		switch {
		case businessflow.IsSpamNumberRequired(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberRequired})
		case businessflow.IsSpamNumberTooLong(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberTooLong})
		case businessflow.IsCallEventRequired(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgEventRequired})
		}
		return internalError(ctx, c, "record call event failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Message: msgEventRecorded})
}

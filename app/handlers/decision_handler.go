package handlers

import (
	"github.com/amirphl/spam-guard/app/dto"
	businessflow "github.com/amirphl/spam-guard/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type DecisionHandlerInterface interface {
	Verify(c fiber.Ctx) error
	IssabelHook(c fiber.Ctx) error
}

type DecisionHandler struct {
	flow      businessflow.DecisionFlow
	validator *validator.Validate
}

func NewDecisionHandler(flow businessflow.DecisionFlow) DecisionHandlerInterface {
	return &DecisionHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

// Verify tells whether a number is registered as spam
// @Summary Verify number
// @Tags Decisions
// @Produce json
// @Param numero query string true "Phone number"
// @Success 200 {object} dto.SpamVerdictResponse "Flagged number"
// @Success 200 {object} dto.CleanVerdictResponse "Unknown number"
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verificar-numero [get]
func (h *DecisionHandler) Verify(c fiber.Ctx) error {
	var q dto.NumberQuery
	if err := c.Bind().Query(&q); err != nil {
		return errorResponse(c, fiber.StatusUnprocessableEntity, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}
	if handled, err := validate(c, h.validator, &q); handled {
		return err
	}

	ctx, cancel := createRequestContext(c, "/verificar-numero")
	defer cancel()

	verdict, err := h.flow.Verify(ctx, q.Number)
	if err != nil {
		if businessflow.IsSpamNumberRequired(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberRequired})
		}
		return internalError(ctx, c, "verify number failed", err)
	}

	if !verdict.IsSpam {
		return c.Status(fiber.StatusOK).JSON(dto.CleanVerdictResponse{
			Number: verdict.Number,
			IsSpam: false,
		})
	}
	return c.Status(fiber.StatusOK).JSON(dto.SpamVerdictResponse{
		Number:       verdict.Number,
		IsSpam:       true,
		Note:         verdict.Note,
		AddedBy:      verdict.AddedBy,
		RegisteredAt: verdict.RegisteredAt,
	})
}

// IssabelHook answers the PBX routing hook for an incoming call
// @Summary PBX routing decision
// @Tags Decisions
// @Produce json
// @Param numero query string true "Caller number"
// @Success 200 {object} dto.RouteDecisionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /issabel-hook [get]
func (h *DecisionHandler) IssabelHook(c fiber.Ctx) error {
	var q dto.NumberQuery
	if err := c.Bind().Query(&q); err != nil {
		return errorResponse(c, fiber.StatusUnprocessableEntity, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}
	if handled, err := validate(c, h.validator, &q); handled {
		return err
	}

	ctx, cancel := createRequestContext(c, "/issabel-hook")
	defer cancel()

	decision, err := h.flow.RouteDecision(ctx, q.Number)
	if err != nil {
		if businessflow.IsSpamNumberRequired(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberRequired})
		}
		return internalError(ctx, c, "route decision failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.RouteDecisionResponse{
		Action:          decision.Action,
		TargetExtension: decision.TargetExtension,
		Reason:          decision.Reason,
	})
}

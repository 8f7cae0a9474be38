package handlers

import (
	"fmt"

	"github.com/amirphl/spam-guard/app/dto"
	businessflow "github.com/amirphl/spam-guard/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type SpamNumberHandlerInterface interface {
	List(c fiber.Ctx) error
	Register(c fiber.Ctx) error
	Unregister(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

type SpamNumberHandler struct {
	flow       businessflow.SpamNumberFlow
	exportFlow businessflow.SpamExportFlow
	validator  *validator.Validate
}

func NewSpamNumberHandler(flow businessflow.SpamNumberFlow, exportFlow businessflow.SpamExportFlow) SpamNumberHandlerInterface {
	return &SpamNumberHandler{
		flow:       flow,
		exportFlow: exportFlow,
		validator:  newValidator(),
	}
}

// List dumps the raw registry
// @Summary List spam numbers
// @Description Returns every registered spam number, ordered by id
// @Tags Spam Numbers
// @Produce json
// @Success 200 {array} dto.SpamNumberDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /test-db [get]
func (h *SpamNumberHandler) List(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/test-db")
	defer cancel()

	rows, err := h.flow.ListAll(ctx)
	if err != nil {
		return internalError(ctx, c, "list spam numbers failed", err)
	}

	items := make([]dto.SpamNumberDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, businessflow.ToSpamNumberDTO(*r))
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

// Register flags a number as spam
// @Summary Register spam number
// @Tags Spam Numbers
// @Accept json
// @Produce json
// @Param request body dto.RegisterSpamNumberRequest true "Number to flag"
// @Success 200 {object} dto.RegisterSpamNumberResponse
// @Failure 400 {object} dto.ErrorResponse "Number already registered"
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /agregar-numero [post]
func (h *SpamNumberHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterSpamNumberRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusUnprocessableEntity, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}
	if handled, err := validate(c, h.validator, &req); handled {
		return err
	}

	ctx, cancel := createRequestContext(c, "/agregar-numero")
	defer cancel()

	spam, err := h.flow.Register(ctx, req.Number, req.Note, req.AddedBy)
	if err != nil {
		switch {
		case businessflow.IsSpamNumberAlreadyExists(err):
			return errorResponse(c, fiber.StatusBadRequest, msgNumberAlreadyExists, "SPAM_NUMBER_ALREADY_EXISTS", nil)
		case businessflow.IsSpamNumberRequired(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberRequired})
		case businessflow.IsSpamNumberTooLong(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberTooLong})
		}
		return internalError(ctx, c, "register spam number failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.RegisterSpamNumberResponse{
		Message: msgNumberRegistered,
		ID:      spam.ID,
	})
}

// Unregister removes a number from the registry
// @Summary Unregister spam number
// @Tags Spam Numbers
// @Produce json
// @Param numero query string true "Phone number"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /eliminar-numero [delete]
func (h *SpamNumberHandler) Unregister(c fiber.Ctx) error {
	var q dto.NumberQuery
	if err := c.Bind().Query(&q); err != nil {
		return errorResponse(c, fiber.StatusUnprocessableEntity, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}
	if handled, err := validate(c, h.validator, &q); handled {
		return err
	}

	ctx, cancel := createRequestContext(c, "/eliminar-numero")
	defer cancel()

	if err := h.flow.Unregister(ctx, q.Number); err != nil {
		switch {
		case businessflow.IsSpamNumberNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, msgNumberNotFound, "SPAM_NUMBER_NOT_FOUND", nil)
		case businessflow.IsSpamNumberRequired(err):
			return errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", []string{msgNumberRequired})
		}
		return internalError(ctx, c, "unregister spam number failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Message: msgNumberDeleted})
}

// Export downloads the registry as a spreadsheet
// @Summary Export spam numbers
// @Tags Spam Numbers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param formato query string false "xlsx (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /exportar-numeros [get]
func (h *SpamNumberHandler) Export(c fiber.Ctx) error {
	var q dto.ExportSpamNumbersQuery
	if err := c.Bind().Query(&q); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}

	ctx, cancel := createRequestContext(c, "/exportar-numeros")
	defer cancel()

	file, err := h.exportFlow.Export(ctx, q.Format)
	if err != nil {
		if businessflow.IsUnsupportedExportFormat(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unsupported export format", "UNSUPPORTED_EXPORT_FORMAT", []string{"formato must be one of: xlsx csv"})
		}
		return internalError(ctx, c, "export spam numbers failed", err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Status(fiber.StatusOK).Send(file.Content)
}

// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/amirphl/spam-guard/app/dto"
	businessflow "github.com/amirphl/spam-guard/business_flow"
	"github.com/amirphl/spam-guard/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"
)

// Client facing messages
const (
	msgNumberRegistered    = "Número agregado como SPAM"
	msgNumberAlreadyExists = "El número ya está registrado como SPAM"
	msgNumberNotFound      = "Número no encontrado"
	msgNumberDeleted       = "Número eliminado correctamente"
	msgEventRecorded       = "Evento registrado"
	msgValidationFailed    = "Validation failed"
	msgInvalidRequest      = "Invalid request"
	msgNumberRequired      = "numero must not be blank"
	msgNumberTooLong       = "numero must be at most 32 characters"
	msgEventRequired       = "tipoevento and fuente must not be blank"
	msgInternalError       = "Internal server error"
)

// newValidator reports fields by their wire names (json, then query tag)
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	default:
		return err.Field() + " is invalid"
	}
}

// validate runs struct validation and turns failures into a 422 response.
// It returns handled=true when a response has already been written.
func validate(c fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	err := v.Struct(req)
	if err == nil {
		return false, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return true, errorResponse(c, fiber.StatusUnprocessableEntity, msgInvalidRequest, "INVALID_REQUEST", []string{err.Error()})
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return true, errorResponse(c, fiber.StatusUnprocessableEntity, msgValidationFailed, "VALIDATION_ERROR", messages)
}

func errorResponse(c fiber.Ctx, statusCode int, detail, code string, errs []string) error {
	return c.Status(statusCode).JSON(dto.ErrorResponse{
		Detail: detail,
		Code:   code,
		Errors: errs,
	})
}

// internalError logs the failure and answers with a generic 500
func internalError(ctx context.Context, c fiber.Ctx, msg string, err error) error {
	zap.L().Error(msg,
		zap.String("request_id", utils.RequestIDFromContext(ctx)),
		zap.String("endpoint", fmt.Sprint(ctx.Value(utils.EndpointKey))),
		zap.String("ip", fmt.Sprint(ctx.Value(utils.IPAddressKey))),
		zap.Error(err),
	)
	code := "INTERNAL_ERROR"
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		code = be.Code
	}
	return errorResponse(c, fiber.StatusInternalServerError, msgInternalError, code, nil)
}

// createRequestContext derives the per-request unit of work. Callers must cancel it.
func createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.RequestTimeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	return ctx, cancel
}

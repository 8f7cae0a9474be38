package handlers

import (
	"github.com/amirphl/spam-guard/app/dto"
	"github.com/gofiber/fiber/v3"
)

// Health is the liveness probe
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func Health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dto.HealthResponse{Status: "ok"})
}

package handlers

import (
	"skytone/config"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, config config.Config) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return dataResponse(c, fiber.StatusOK, fiber.Map{
			"status":  "ok",
			"version": config.GeneralVersion,
			"service": "skytone_api",
		})
	})
}

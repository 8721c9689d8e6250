package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - API только на чтение, origins из конфигурации
func CORS(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,HEAD,OPTIONS",
		AllowHeaders:  "Content-Type,Accept,Accept-Language,Authorization," + RequestIDHeader,
		ExposeHeaders: RequestIDHeader,
		// credentials несовместимы с "*"
		AllowCredentials: allowOrigins != "*",
	})
}

package routes

import (
	uploadController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/uploads"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	app.Post("/api/uploads", middlewares.AuthMiddleware, middlewares.AdminOnly, uploadController.UploadImage)
}

package routes

import (
	controllers "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/user"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	app.Get("/api/user/profile", middlewares.AuthMiddleware, controllers.GetProfile)
	app.Put("/api/user/profile", middlewares.AuthMiddleware, controllers.UpdateProfile)
}

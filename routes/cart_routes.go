package routes

import (
	cartController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/cart"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func CartRoutes(app *fiber.App) {
	app.Post("/api/cart", middlewares.AuthMiddleware, cartController.AddToCart)
	app.Put("/api/cart", middlewares.AuthMiddleware, cartController.UpdateCartItem)
	app.Delete("/api/cart", middlewares.AuthMiddleware, cartController.RemoveFromCart)
	app.Get("/api/cart", middlewares.AuthMiddleware, cartController.GetCart)
}

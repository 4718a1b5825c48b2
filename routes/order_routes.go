package routes

import (
	orderController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/orders"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	app.Post("/api/orders/session", middlewares.AuthMiddleware, orderController.CreateCheckoutSession)
	app.Post("/api/orders/verify", middlewares.AuthMiddleware, orderController.VerifyPayment)
	app.Get("/api/orders", middlewares.AuthMiddleware, orderController.GetOrders)
	app.Get("/api/orders/detail", middlewares.AuthMiddleware, orderController.GetOrderById)
}

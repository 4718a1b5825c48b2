package routes

import (
	adminController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/admin"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	app.Post("/api/admin/login", adminController.AdminLogin)

	app.Post("/api/admin/products", middlewares.AuthMiddleware, middlewares.AdminOnly, adminController.CreateProduct)
	app.Put("/api/admin/products", middlewares.AuthMiddleware, middlewares.AdminOnly, adminController.UpdateProduct)
	app.Delete("/api/admin/products", middlewares.AuthMiddleware, middlewares.AdminOnly, adminController.DeleteProduct)

	app.Get("/api/admin/orders", middlewares.AuthMiddleware, middlewares.AdminOnly, adminController.GetAllOrders)
	app.Put("/api/admin/orders/status", middlewares.AuthMiddleware, middlewares.AdminOnly, adminController.UpdateOrderStatus)

	app.Get("/api/admin/stats", middlewares.AuthMiddleware, middlewares.AdminOnly, adminController.GetDashboardStats)
}

package routes

import (
	addressController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/addresses"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func AddressRoutes(app *fiber.App) {
	app.Post("/api/user/addresses", middlewares.AuthMiddleware, addressController.AddAddress)
	app.Get("/api/user/addresses", middlewares.AuthMiddleware, addressController.GetAddresses)
	app.Put("/api/user/addresses", middlewares.AuthMiddleware, addressController.EditAddress)
	app.Delete("/api/user/addresses", middlewares.AuthMiddleware, addressController.DeleteAddress)
	app.Put("/api/user/addresses/default", middlewares.AuthMiddleware, addressController.SetDefaultAddress)
}

package routes

import (
	wishlistController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/wishlist"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func WishlistRoutes(app *fiber.App) {
	app.Post("/api/wishlist", middlewares.AuthMiddleware, wishlistController.AddToWishlist)
	app.Delete("/api/wishlist", middlewares.AuthMiddleware, wishlistController.RemoveFromWishlist)
	app.Get("/api/wishlist", middlewares.AuthMiddleware, wishlistController.GetWishlist)
}

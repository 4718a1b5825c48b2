package routes

import (
	controllers "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/products"

	"github.com/gofiber/fiber/v2"
)

// ProductRoutes registers the public catalog endpoints. Browsing needs
// no account, so none of these carry auth.
func ProductRoutes(app *fiber.App) {
	app.Get("/api/products", controllers.GetAllProducts)
	app.Get("/api/products/search", controllers.SearchProducts)
	app.Get("/api/products/featured", controllers.GetFeaturedProducts)
	app.Get("/api/products/categories", controllers.GetCategories)
	app.Get("/api/products/id", controllers.GetProductById)
	app.Get("/api/products/:slug", controllers.GetProductBySlug)
}

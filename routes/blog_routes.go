package routes

import (
	blogController "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/blogs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func BlogRoutes(app *fiber.App) {
	app.Get("/api/blogs", blogController.GetBlogs)
	app.Get("/api/blogs/:slug", blogController.GetBlogBySlug)

	app.Post("/api/admin/blogs", middlewares.AuthMiddleware, middlewares.AdminOnly, blogController.CreateBlog)
	app.Put("/api/admin/blogs", middlewares.AuthMiddleware, middlewares.AdminOnly, blogController.UpdateBlog)
	app.Delete("/api/admin/blogs", middlewares.AuthMiddleware, middlewares.AdminOnly, blogController.DeleteBlog)
}

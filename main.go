package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/routes"
)

func main() {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: configs.EnvCorsOrigin(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	configs.EnsureIndexes(configs.DB())

	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.AddressRoutes(app)
	routes.CartRoutes(app)
	routes.WishlistRoutes(app)
	routes.ProductRoutes(app)
	routes.OrderRoutes(app)
	routes.AdminRoutes(app)
	routes.BlogRoutes(app)
	routes.UploadRoutes(app)

	c := cron.New()
	if err := c.AddFunc("@hourly", middlewares.SweepAll); err != nil {
		log.Fatal(err)
	}
	c.Start()

	log.Fatal(app.Listen(configs.EnvListenAddr()))
}

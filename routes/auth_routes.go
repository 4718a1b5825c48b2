package routes

import (
	"time"

	controllers "github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/controllers/auth"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/middlewares"

	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	otpLimiter := middlewares.NewRateLimiter(5, time.Minute)
	signinLimiter := middlewares.NewRateLimiter(10, time.Minute)
	middlewares.RegisterSweep(otpLimiter, signinLimiter)

	app.Post("/api/auth/otp/send", otpLimiter.Middleware(), controllers.SendOtp)
	app.Post("/api/auth/otp/verify", otpLimiter.Middleware(), controllers.VerifyOtp)
	app.Post("/api/auth/signup", controllers.SignUp)
	app.Post("/api/auth/signin", signinLimiter.Middleware(), controllers.SignIn)
	app.Post("/api/auth/signout", middlewares.AuthMiddleware, controllers.SignOut)
	app.Post("/api/auth/reset-password", controllers.ResetPassword)
}

package main

import (
	"lms/config"
	"lms/database"
	"lms/progress"
	adminRoutes "lms/routers/adminRoutes"
	authRoutes "lms/routers/authRoutes"
	contractRoutes "lms/routers/contractRoutes"
	courseRoutes "lms/routers/courseRoutes"
	instructorRoutes "lms/routers/instructorRoutes"
	"lms/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	progress.OnCertificateIssued = utils.SendCertificateIssuedEmail

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded course files and generated certificates
	app.Static("/media", config.AppConfig.MediaDir)

	authRoutes.SetupAuthRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	contractRoutes.SetupContractRoutes(app)
	instructorRoutes.SetupInstructorRoutes(app)

	// Deactivate expired contracts every midnight
	utils.StartContractScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

package main

import (
	"flag"
	"fmt"
	"log"

	"chirp/api/handlers"
	"chirp/api/middleware"
	"chirp/api/routes"
	"chirp/config"
	"chirp/db"
	"chirp/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	if err := services.InitRedis(); err != nil {
		panic("Failed to connect to Redis: " + err.Error())
	}
	defer services.CloseRedis()

	directory := services.NewDirectoryService(
		config.AppConfig.Identity.BaseURL,
		config.AppConfig.Identity.APIKey,
	)
	limiter := services.NewRateLimiter(services.RedisClient)
	handlers.InitHandlers(
		services.NewPostService(limiter),
		services.NewFeedService(directory),
		directory,
	)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("chirp"))

	routes.PublicApi(router, directory)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}

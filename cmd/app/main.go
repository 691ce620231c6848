package main

import (
	"hall/config"
	"hall/di"
	"hall/shared/logger"
)

// @title Hall Reservation API
// @version 1.0
// @description Room reservation service with conflict-free booking lifecycle.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}

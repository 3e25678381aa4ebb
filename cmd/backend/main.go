package main

import (
	"context"

	"pipespec/internal/api"

	"github.com/sirupsen/logrus"
)

// @title Pipespec API
// @version 1.0
// @description Проекты, спецификации трубопроводов и справочники с квотами подписки
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logrus.Info("App start")
	if err := api.StartServer(context.Background()); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("App terminated")
}

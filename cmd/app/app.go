package main

import (
	"os"

	"github.com/trivshopy/catalog-backend/internal/app"
	config "github.com/trivshopy/catalog-backend/internal/cfg"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

//	@title			Catalog Backend API
//	@version		1.0
//	@description	Сервис каталога товаров: карточки, варианты, изображения.
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}

package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/trivshopy/catalog-backend/docs" // Импорт сгенерированных файлов
	"github.com/trivshopy/catalog-backend/internal/cfg"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
	appCfg *cfg.AppCfg
}

func NewRouter(router *chi.Mux, logger logger.Logger, appCfg *cfg.AppCfg) *Router {
	return &Router{router: router, logger: logger, appCfg: appCfg}
}

func (r *Router) Init(prUC usecase.ProductUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger, r.appCfg)
		registerProductRoutes(v1, prHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.getAllProducts)

		pr.Route("/{id}", func(one chi.Router) {
			one.Get("/", prHandler.getProductByID)
			one.Put("/", prHandler.updateProduct)
			one.Delete("/", prHandler.deleteProduct)
			one.Patch("/toggle", prHandler.toggleProductStatus)
		})
	})
}

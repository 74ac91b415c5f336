package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/trivshopy/catalog-backend/internal/cfg"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

const (
	maxTotalRequestSize = 150 << 20
	maxMemory           = 32 << 20
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	appCfg         *cfg.AppCfg
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger, appCfg *cfg.AppCfg) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger, appCfg: appCfg}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт товар каталога с вариантами, QnA и изображениями
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name				formData	string	true	"Название товара"
//	@Param			basePrice			formData	string	true	"Базовая цена (рубли, до двух знаков)"
//	@Param			primaryCategoryId	formData	integer	true	"Основная категория"
//	@Param			variants			formData	string	false	"JSON-массив вариантов"
//	@Param			qna					formData	string	false	"JSON-массив вопрос-ответ"
//	@Param			images				formData	file	false	"Основные изображения (до 4)"
//	@Param			variantImages		formData	file	false	"Изображения вариантов, позиционно (до 10)"
//	@Success		201	{object}	SuccessResponse	"Созданный товар"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	req, err := p.parseSaveRequest(w, r)
	if err != nil {
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("create product failed: %s", err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	WriteSuccess(w, http.StatusCreated, &SuccessResponse{
		Success: true,
		Message: "Product created successfully",
		Product: toProductResponse(product),
	})
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Частично обновляет товар: отсутствующие поля сохраняют прежние значения
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id	path	integer	true	"ID товара"
//	@Success		200	{object}	SuccessResponse	"Обновлённый товар"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	req, err := p.parseSaveRequest(w, r)
	if err != nil {
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, req)
	if err != nil {
		p.logger.Warnf("update product %d failed: %s", id, err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	WriteSuccess(w, http.StatusOK, &SuccessResponse{
		Success: true,
		Message: "Product updated successfully",
		Product: toProductResponse(product),
	})
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path	integer	true	"ID товара"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("delete product %d failed: %s", id, err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	WriteSuccess(w, http.StatusOK, &SuccessResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// toggleProductStatus
//
//	@Summary	Переключение активности товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path	integer	true	"ID товара"
//	@Success	200	{object}	SuccessResponse	"Товар с новым статусом"
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id}/toggle [patch]
func (p *ProductHandler) toggleProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	product, err := p.productUsecase.ToggleProductStatus(r.Context(), id)
	if err != nil {
		p.logger.Warnf("toggle product %d failed: %s", id, err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	WriteSuccess(w, http.StatusOK, &SuccessResponse{
		Success: true,
		Message: "Product status toggled successfully",
		Product: toProductResponse(product),
	})
}

// getAllProducts
//
//	@Summary	Список товаров
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	SuccessResponse	"Все товары каталога"
//	@Router		/products [get]
func (p *ProductHandler) getAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.GetAllProducts(r.Context())
	if err != nil {
		p.logger.Warnf("get all products failed: %s", err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	WriteSuccess(w, http.StatusOK, &SuccessResponse{
		Success:  true,
		Products: toProductResponses(products),
	})
}

// getProductByID
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path	integer	true	"ID товара"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	product, err := p.productUsecase.GetProductByID(r.Context(), id)
	if err != nil {
		p.logger.Warnf("get product %d failed: %s", id, err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return
	}

	WriteSuccess(w, http.StatusOK, &SuccessResponse{
		Success: true,
		Product: toProductResponse(product),
	})
}

// parseSaveRequest валидирует multipart-форму create/update.
// При ошибке сам пишет ответ и возвращает error как сигнал выхода.
func (p *ProductHandler) parseSaveRequest(w http.ResponseWriter, r *http.Request) (*usecase.SaveProductReq, error) {
	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d: %s", http.StatusBadRequest, r.Header.Get("Content-Type"))
		WriteError(w, err, p.appCfg.IsProduction())
		return nil, err
	}

	req, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err, p.appCfg.IsProduction())
		return nil, err
	}

	return req, nil
}

func parseProductID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(raw, e.ErrInvalidProductID)
	}

	return id, nil
}

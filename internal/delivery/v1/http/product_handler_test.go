package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trivshopy/catalog-backend/internal/cfg"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

// stubProductUC фиксирует вызовы и возвращает заранее заданные результаты.
type stubProductUC struct {
	createCalls int
	updateCalls int
	lastReq     *usecase.SaveProductReq

	product *domain.Product
	err     error
}

func (s *stubProductUC) CreateProduct(ctx context.Context, req *usecase.SaveProductReq) (*domain.Product, error) {
	s.createCalls++
	s.lastReq = req
	return s.product, s.err
}

func (s *stubProductUC) UpdateProduct(ctx context.Context, productID int64, req *usecase.SaveProductReq) (*domain.Product, error) {
	s.updateCalls++
	s.lastReq = req
	return s.product, s.err
}

func (s *stubProductUC) DeleteProduct(ctx context.Context, productID int64) error {
	return s.err
}

func (s *stubProductUC) ToggleProductStatus(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductUC) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Product{s.product}, nil
}

func (s *stubProductUC) GetProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.product, s.err
}

func newTestRouter(uc usecase.ProductUC) *chi.Mux {
	mux := chi.NewRouter()
	appCfg := &cfg.AppCfg{Env: "development"}

	NewRouter(mux, logger.NewNopLogger(), appCfg).Init(uc)
	return mux
}

// multipartBody собирает multipart-форму из строковых полей.
func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func validProductFields() map[string]string {
	return map[string]string{
		"name":              "Кресло садовое",
		"basePrice":         "599.99",
		"primaryCategoryId": "3",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateProduct_Success(t *testing.T) {
	uc := &stubProductUC{product: &domain.Product{ID: 7, Name: "Кресло садовое", BasePrice: 59999, IsActive: true}}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, validProductFields())
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/products/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, uc.createCalls)

	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Product)
	assert.Equal(t, int64(7), resp.Product.ID)
	assert.Equal(t, int64(59999), resp.Product.BasePrice)
}

func TestCreateProduct_NotMultipart(t *testing.T) {
	uc := &stubProductUC{}
	router := newTestRouter(uc)

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/products/", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, uc.createCalls)
}

func TestCreateProduct_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "без названия", fields: map[string]string{"basePrice": "10", "primaryCategoryId": "1"}},
		{name: "без цены", fields: map[string]string{"name": "x", "primaryCategoryId": "1"}},
		{name: "без категории", fields: map[string]string{"name": "x", "basePrice": "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubProductUC{}
			router := newTestRouter(uc)

			body, contentType := multipartBody(t, tt.fields)
			req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/products/", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, uc.createCalls, "валидация должна отсечь запрос до usecase")
		})
	}
}

func TestCreateProduct_MalformedVariantsJSON(t *testing.T) {
	uc := &stubProductUC{}
	router := newTestRouter(uc)

	fields := validProductFields()
	fields["variants"] = `[{"color":"red"`

	body, contentType := multipartBody(t, fields)
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/products/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, uc.createCalls)

	resp := decodeError(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, e.ErrInvalidVariantsJSON.Error(), resp.Message)
}

func TestUpdateProduct_InvalidID(t *testing.T) {
	uc := &stubProductUC{}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, validProductFields())
	req := httptest.NewRequest(stdhttp.MethodPut, "/api/v1/products/abc/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, uc.updateCalls)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	uc := &stubProductUC{err: e.Wrap("id 99", e.ErrProductNotFound)}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, validProductFields())
	req := httptest.NewRequest(stdhttp.MethodPut, "/api/v1/products/99/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, e.ErrProductNotFound.Error(), resp.Message)
}

func TestUpdateProduct_VariantImageRequiredIsBadRequest(t *testing.T) {
	uc := &stubProductUC{err: e.Wrap("variant redM", e.ErrVariantImageRequired)}
	router := newTestRouter(uc)

	fields := validProductFields()
	fields["variants"] = `[{"color":"red","size":"M"}]`

	body, contentType := multipartBody(t, fields)
	req := httptest.NewRequest(stdhttp.MethodPut, "/api/v1/products/5/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	uc := &stubProductUC{err: e.ErrProductNotFound}
	router := newTestRouter(uc)

	req := httptest.NewRequest(stdhttp.MethodDelete, "/api/v1/products/42/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestToggleProductStatus(t *testing.T) {
	uc := &stubProductUC{product: &domain.Product{ID: 3, IsActive: false}}
	router := newTestRouter(uc)

	req := httptest.NewRequest(stdhttp.MethodPatch, "/api/v1/products/3/toggle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Product)
	assert.False(t, resp.Product.IsActive)
}

func TestGetAllProducts(t *testing.T) {
	uc := &stubProductUC{product: &domain.Product{ID: 1, Name: "Диван"}}
	router := newTestRouter(uc)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Диван", resp.Products[0].Name)
}

func TestGetProductByID_InvalidID(t *testing.T) {
	uc := &stubProductUC{}
	router := newTestRouter(uc)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/products/-1/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestErrorDetailHiddenInProduction(t *testing.T) {
	mux := chi.NewRouter()
	uc := &stubProductUC{err: e.Wrap("pg: connection refused", e.ErrInternalServerError)}
	NewRouter(mux, logger.NewNopLogger(), &cfg.AppCfg{Env: "production"}).Init(uc)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/products/1/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Empty(t, resp.Error, "детали ошибки не должны утекать в production")
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/e"
)

const (
	maxMainImages    = 4
	maxVariantImages = 10
	maxFileSize      = 15 << 20
)

// SuccessResponse — конверт успешного ответа API.
type SuccessResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message,omitempty"`
	Product  *ProductResponse   `json:"product,omitempty"`
	Products []*ProductResponse `json:"products,omitempty"`
}

// ErrorResponse — конверт ответа с ошибкой. Поле Error заполняется
// деталями только вне production.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func NewErrorResponse(message, detail string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Message: message,
		Error:   detail,
	}
}

// ToHTTPResponse сопоставляет ошибку приложения с HTTP-статусом
// и публичным сообщением.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrBasePriceRequired):
		return http.StatusBadRequest, e.ErrBasePriceRequired.Error()
	case errors.Is(err, e.ErrPrimaryCategoryRequired):
		return http.StatusBadRequest, e.ErrPrimaryCategoryRequired.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrInvalidCategoryID):
		return http.StatusBadRequest, e.ErrInvalidCategoryID.Error()
	case errors.Is(err, e.ErrInvalidStock):
		return http.StatusBadRequest, e.ErrInvalidStock.Error()
	case errors.Is(err, e.ErrInvalidVariantsJSON):
		return http.StatusBadRequest, e.ErrInvalidVariantsJSON.Error()
	case errors.Is(err, e.ErrInvalidQnaJSON):
		return http.StatusBadRequest, e.ErrInvalidQnaJSON.Error()
	case errors.Is(err, e.ErrTooManyImages):
		return http.StatusBadRequest, e.ErrTooManyImages.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusBadRequest, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrImageCountMismatch):
		return http.StatusBadRequest, e.ErrImageCountMismatch.Error()
	case errors.Is(err, e.ErrVariantImageRequired):
		return http.StatusBadRequest, e.ErrVariantImageRequired.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// WriteError пишет JSON-ошибку. Детали исходной ошибки уходят клиенту
// только вне production.
func WriteError(w http.ResponseWriter, err error, isProduction bool) {
	code, msg := ToHTTPResponse(err)

	detail := ""
	if !isProduction {
		detail = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(msg, detail))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents переводит строку вида "599.99" или "600" в копейки.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Потолок — миллиард рублей
	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// variantJSON — вариант товара из JSON-поля variants формы.
type variantJSON struct {
	Color string  `json:"color"`
	Size  string  `json:"size"`
	Price *string `json:"price"`
	Stock *int64  `json:"stock"`
	Image *string `json:"image"`
}

// qnaJSON — запись вопрос-ответ из JSON-поля qna формы.
type qnaJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// parseProductForm собирает SaveProductReq из multipart-формы.
// Обязательные скаляры проверяются до разбора JSON-полей, чтобы
// клиент получил ошибку о недостающем поле, а не о синтаксисе.
func parseProductForm(r *http.Request) (*usecase.SaveProductReq, error) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNameRequired)
	}

	basePriceStr := r.FormValue("basePrice")
	if strings.TrimSpace(basePriceStr) == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrBasePriceRequired)
	}

	basePrice, err := parsePriceToCents(basePriceStr)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("basePrice: %s", basePriceStr), err)
	}

	primaryCategoryID, err := parseFormInt64(r, "primaryCategoryId", e.ErrPrimaryCategoryRequired, e.ErrInvalidCategoryID)
	if err != nil {
		return nil, err
	}

	req := &usecase.SaveProductReq{
		Name:              name,
		BasePrice:         basePrice,
		PrimaryCategoryID: *primaryCategoryID,
	}

	req.Description = optionalFormValue(r, "description")
	req.Brand = optionalFormValue(r, "brand")
	req.Fragrance = optionalFormValue(r, "fragrance")
	req.Specifications = optionalFormValue(r, "specifications")
	req.CareAndMaintenance = optionalFormValue(r, "careAndMaintenance")
	req.Warranty = optionalFormValue(r, "warranty")

	if req.SecondaryCategoryID, err = optionalFormInt64(r, "secondaryCategoryId", e.ErrInvalidCategoryID); err != nil {
		return nil, err
	}
	if req.TertiaryCategoryID, err = optionalFormInt64(r, "tertiaryCategoryId", e.ErrInvalidCategoryID); err != nil {
		return nil, err
	}
	if req.BaseStock, err = optionalFormInt64(r, "baseStock", e.ErrInvalidStock); err != nil {
		return nil, err
	}
	if req.BaseStock != nil && *req.BaseStock < 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidStock)
	}

	if raw, ok := formValue(r, "isActive"); ok {
		active := raw == "true" || raw == "1"
		req.IsActive = &active
	}

	if req.Variants, err = parseVariantsField(r.FormValue("variants")); err != nil {
		return nil, err
	}
	if req.QnA, err = parseQnaField(r.FormValue("qna")); err != nil {
		return nil, err
	}

	if req.Images, err = parseImages(r.MultipartForm.File["images"], maxMainImages); err != nil {
		return nil, err
	}
	if req.VariantImages, err = parseImages(r.MultipartForm.File["variantImages"], maxVariantImages); err != nil {
		return nil, err
	}

	return req, nil
}

// parseVariantsField разбирает JSON-строку поля variants.
// Пустая строка — отсутствие вариантов.
func parseVariantsField(raw string) ([]usecase.VariantInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var parsed []variantJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidVariantsJSON)
	}

	variants := make([]usecase.VariantInput, 0, len(parsed))
	for _, v := range parsed {
		input := usecase.VariantInput{
			Color: v.Color,
			Size:  v.Size,
			Stock: v.Stock,
			Image: v.Image,
		}

		if v.Price != nil {
			cents, err := parsePriceToCents(*v.Price)
			if err != nil {
				return nil, e.Wrap(fmt.Sprintf("variant %s/%s price", v.Color, v.Size), err)
			}
			input.Price = &cents
		}

		if input.Stock != nil && *input.Stock < 0 {
			return nil, e.Wrap(fmt.Sprintf("variant %s/%s stock", v.Color, v.Size), e.ErrInvalidStock)
		}

		variants = append(variants, input)
	}

	return variants, nil
}

// parseQnaField разбирает JSON-строку поля qna.
func parseQnaField(raw string) ([]domain.QnAEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var parsed []qnaJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQnaJSON)
	}

	qna := make([]domain.QnAEntry, 0, len(parsed))
	for _, q := range parsed {
		qna = append(qna, domain.QnAEntry{Question: q.Question, Answer: q.Answer})
	}

	return qna, nil
}

func parseImages(files []*multipart.FileHeader, limit int) ([]usecase.ProductImage, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > limit {
		return nil, e.Wrap(fmt.Sprintf("got %d, limit %d", len(files), limit), e.ErrTooManyImages)
	}

	images := make([]usecase.ProductImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename))
	}

	return images, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}

// formValue возвращает значение поля и признак его наличия в форме.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}

	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}

func optionalFormValue(r *http.Request, key string) *string {
	if v, ok := formValue(r, key); ok {
		return &v
	}

	return nil
}

func optionalFormInt64(r *http.Request, key string, invalidErr error) (*int64, error) {
	raw, ok := formValue(r, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("%s: %s", key, raw), invalidErr)
	}

	return &parsed, nil
}

func parseFormInt64(r *http.Request, key string, missingErr, invalidErr error) (*int64, error) {
	raw, ok := formValue(r, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, e.Wrap(whereami.WhereAmI(), missingErr)
	}

	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("%s: %s", key, raw), invalidErr)
	}

	return &parsed, nil
}

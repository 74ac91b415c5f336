package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 400 Bad Request
	ErrExpectedMultipart       = fmt.Errorf("expected multipart/form-data")
	ErrProductNameRequired     = fmt.Errorf("product name is required")
	ErrBasePriceRequired       = fmt.Errorf("base price is required")
	ErrPrimaryCategoryRequired = fmt.Errorf("primary category is required")
	ErrInvalidPrice            = fmt.Errorf("invalid price")
	ErrPricePrecision          = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidProductID        = fmt.Errorf("invalid product id")
	ErrInvalidCategoryID       = fmt.Errorf("invalid category id")
	ErrInvalidStock            = fmt.Errorf("invalid stock value")
	ErrInvalidVariantsJSON     = fmt.Errorf("variants is not valid JSON")
	ErrInvalidQnaJSON          = fmt.Errorf("qna is not valid JSON")
	ErrTooManyImages           = fmt.Errorf("too many images")
	ErrFileTooLarge            = fmt.Errorf("file too large")
	ErrUnsupportedMediaType    = fmt.Errorf("unsupported media type")
	ErrImageCountMismatch      = fmt.Errorf("variant image count mismatch")
	ErrVariantImageRequired    = fmt.Errorf("image required for variant")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 500 Internal Server Error
	ErrUploadFailed        = fmt.Errorf("image upload failed")
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

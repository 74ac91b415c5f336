package infrastructure

import (
	"strings"

	"github.com/trivshopy/catalog-backend/pkg/e"
)

// mimeExtensions — допустимые типы изображений каталога.
var mimeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// GetExtensionFromMIME возвращает расширение файла по MIME-типу.
// Типы вне белого списка отклоняются.
func GetExtensionFromMIME(mimeType string) (string, error) {
	ext, ok := mimeExtensions[strings.ToLower(strings.TrimSpace(mimeType))]
	if !ok {
		return "", e.ErrUnsupportedMediaType
	}

	return ext, nil
}

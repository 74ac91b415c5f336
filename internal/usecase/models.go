package usecase

import (
	"time"

	"github.com/trivshopy/catalog-backend/internal/domain"
)

// PRODUCT USECASE

// Папки медиа-хранилища для изображений товара.
const (
	FolderProductImages = "products"
	FolderVariantImages = "products/variants"
)

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// VariantInput — вариант товара из тела запроса. Указатели различают
// «поле не передано» и «передано пустое значение».
type VariantInput struct {
	Color string
	Size  string
	Price *int64 // копейки; nil — наследуется basePrice
	Stock *int64 // nil — наследуется baseStock
	Image *string
}

// Key возвращает ключ идентичности варианта (цвет+размер).
func (v VariantInput) Key() string {
	return v.Color + v.Size
}

// SaveProductReq — распарсенный запрос на создание или обновление товара.
// Указатели на скалярные поля различают отсутствующие и пустые значения:
// при обновлении отсутствующее поле сохраняет прежнее значение.
type SaveProductReq struct {
	Name                string
	Description         *string
	Brand               *string
	BasePrice           int64
	BaseStock           *int64
	IsActive            *bool
	PrimaryCategoryID   int64
	SecondaryCategoryID *int64
	TertiaryCategoryID  *int64
	Fragrance           *string
	Specifications      *string
	CareAndMaintenance  *string
	Warranty            *string
	QnA                 []domain.QnAEntry
	Variants            []VariantInput
	Images              []ProductImage // новые основные изображения
	VariantImages       []ProductImage // новые изображения вариантов, позиционно
}

// INFRASTRUCTURE

// UploadImagesReq — запрос на загрузку изображений в медиа-хранилище.
type UploadImagesReq struct {
	Folder string
	Images []ProductImage
}

// UploadImagesRes — результат загрузки: ссылки и ключи объектов,
// порядок совпадает с порядком отправки.
type UploadImagesRes struct {
	URLs []string
	Keys []string
}

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductUpsert OutboxEventType = "product.upsert"
	ProductDelete OutboxEventType = "product.delete"
)

// OutboxEvent — запись outbox-таблицы для надёжной доставки событий каталога.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductChangeEvent — полезная нагрузка события изменения товара (JSON).
type ProductChangeEvent struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	ProductID  int64  `json:"product_id"`
	OccurredAt int64  `json:"occurred_at"` // unix nano
}

// MAPPERS

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImagesReq(folder string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Folder: folder,
		Images: images,
	}
}

func NewUploadImagesRes(urls []string, keys []string) *UploadImagesRes {
	return &UploadImagesRes{
		URLs: urls,
		Keys: keys,
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewProductChangeEvent(eventID string, eventType OutboxEventType, productID int64) *ProductChangeEvent {
	return &ProductChangeEvent{
		EventID:    eventID,
		EventType:  string(eventType),
		ProductID:  productID,
		OccurredAt: time.Now().UTC().UnixNano(),
	}
}

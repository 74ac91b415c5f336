package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Коллекции qna/variants/images хранятся как JSONB.
type ProductModel struct {
	ID                  int64      `db:"id"`
	Name                string     `db:"name"`
	Description         string     `db:"description"`
	Brand               string     `db:"brand"`
	BasePrice           int64      `db:"base_price"`
	BaseStock           int64      `db:"base_stock"`
	IsActive            bool       `db:"is_active"`
	PrimaryCategoryID   int64      `db:"primary_category_id"`
	SecondaryCategoryID *int64     `db:"secondary_category_id"`
	TertiaryCategoryID  *int64     `db:"tertiary_category_id"`
	Fragrance           string     `db:"fragrance"`
	Specifications      string     `db:"specifications"`
	CareAndMaintenance  string     `db:"care_and_maintenance"`
	Warranty            string     `db:"warranty"`
	QnA                 []byte     `db:"qna"`
	Variants            []byte     `db:"variants"`
	Images              []byte     `db:"images"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           *time.Time `db:"updated_at"`
}

// VariantModel — форма варианта внутри JSONB-колонки variants.
type VariantModel struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
	Image string `json:"image"`
}

// QnAModel — форма записи вопрос-ответ внутри JSONB-колонки qna.
type QnAModel struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Level     string     `db:"level"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

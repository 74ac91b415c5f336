package converter

import "time"

// ProductRedisModel — JSON-форма продукта в кэше. Включает
// наполненные категории, чтобы попадание в кэш не требовало
// обращения к базе.
type ProductRedisModel struct {
	ID                  int64                `json:"id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	Brand               string               `json:"brand"`
	BasePrice           int64                `json:"base_price"`
	BaseStock           int64                `json:"base_stock"`
	IsActive            bool                 `json:"is_active"`
	PrimaryCategoryID   int64                `json:"primary_category_id"`
	SecondaryCategoryID *int64               `json:"secondary_category_id,omitempty"`
	TertiaryCategoryID  *int64               `json:"tertiary_category_id,omitempty"`
	PrimaryCategory     *CategoryRedisModel  `json:"primary_category,omitempty"`
	SecondaryCategory   *CategoryRedisModel  `json:"secondary_category,omitempty"`
	TertiaryCategory    *CategoryRedisModel  `json:"tertiary_category,omitempty"`
	Fragrance           string               `json:"fragrance,omitempty"`
	Specifications      string               `json:"specifications,omitempty"`
	CareAndMaintenance  string               `json:"care_and_maintenance,omitempty"`
	Warranty            string               `json:"warranty,omitempty"`
	QnA                 []QnARedisModel      `json:"qna"`
	Variants            []VariantRedisModel  `json:"variants"`
	Images              []string             `json:"images"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           *time.Time           `json:"updated_at,omitempty"`
}

type CategoryRedisModel struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type VariantRedisModel struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
	Image string `json:"image"`
}

type QnARedisModel struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

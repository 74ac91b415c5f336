package http

import (
	"time"

	"github.com/trivshopy/catalog-backend/internal/domain"
)

// ProductResponse — JSON-представление товара в ответах API.
type ProductResponse struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	Brand               string            `json:"brand,omitempty"`
	BasePrice           int64             `json:"basePrice"`
	BaseStock           int64             `json:"baseStock"`
	IsActive            bool              `json:"isActive"`
	PrimaryCategoryID   int64             `json:"primaryCategoryId"`
	SecondaryCategoryID *int64            `json:"secondaryCategoryId,omitempty"`
	TertiaryCategoryID  *int64            `json:"tertiaryCategoryId,omitempty"`
	PrimaryCategory     *CategoryResponse `json:"primaryCategory,omitempty"`
	SecondaryCategory   *CategoryResponse `json:"secondaryCategory,omitempty"`
	TertiaryCategory    *CategoryResponse `json:"tertiaryCategory,omitempty"`
	Fragrance           string            `json:"fragrance,omitempty"`
	Specifications      string            `json:"specifications,omitempty"`
	CareAndMaintenance  string            `json:"careAndMaintenance,omitempty"`
	Warranty            string            `json:"warranty,omitempty"`
	QnA                 []QnAResponse     `json:"qna"`
	Variants            []VariantResponse `json:"variants"`
	Images              []string          `json:"images"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           *time.Time        `json:"updatedAt,omitempty"`
}

type CategoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type VariantResponse struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
	Image string `json:"image"`
}

type QnAResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func toProductResponse(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}

	variants := make([]VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantResponse{
			Color: v.Color,
			Size:  v.Size,
			Price: v.Price,
			Stock: v.Stock,
			Image: v.Image,
		})
	}

	qna := make([]QnAResponse, 0, len(p.QnA))
	for _, q := range p.QnA {
		qna = append(qna, QnAResponse{Question: q.Question, Answer: q.Answer})
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}

	return &ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Brand:               p.Brand,
		BasePrice:           p.BasePrice,
		BaseStock:           p.BaseStock,
		IsActive:            p.IsActive,
		PrimaryCategoryID:   p.PrimaryCategoryID,
		SecondaryCategoryID: p.SecondaryCategoryID,
		TertiaryCategoryID:  p.TertiaryCategoryID,
		PrimaryCategory:     toCategoryResponse(p.PrimaryCategory),
		SecondaryCategory:   toCategoryResponse(p.SecondaryCategory),
		TertiaryCategory:    toCategoryResponse(p.TertiaryCategory),
		Fragrance:           p.Fragrance,
		Specifications:      p.Specifications,
		CareAndMaintenance:  p.CareAndMaintenance,
		Warranty:            p.Warranty,
		QnA:                 qna,
		Variants:            variants,
		Images:              images,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toProductResponses(products []*domain.Product) []*ProductResponse {
	result := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}

	return result
}

func toCategoryResponse(c *domain.Category) *CategoryResponse {
	if c == nil {
		return nil
	}

	return &CategoryResponse{ID: c.ID, Name: c.Name, Level: c.Level}
}

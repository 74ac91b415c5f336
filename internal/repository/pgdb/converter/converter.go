package converter

import (
	"encoding/json"

	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func NewProductConverter() ProductConverter {
	return ProductConverter{}
}

func (ProductConverter) ToModel(entity *domain.Product) (*ProductModel, error) {
	variants := make([]VariantModel, 0, len(entity.Variants))
	for _, v := range entity.Variants {
		variants = append(variants, VariantModel{
			Color: v.Color,
			Size:  v.Size,
			Price: v.Price,
			Stock: v.Stock,
			Image: v.Image,
		})
	}

	qna := make([]QnAModel, 0, len(entity.QnA))
	for _, q := range entity.QnA {
		qna = append(qna, QnAModel{Question: q.Question, Answer: q.Answer})
	}

	images := entity.Images
	if images == nil {
		images = []string{}
	}

	variantsJSON, err := json.Marshal(variants)
	if err != nil {
		return nil, err
	}

	qnaJSON, err := json.Marshal(qna)
	if err != nil {
		return nil, err
	}

	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}

	return &ProductModel{
		ID:                  entity.ID,
		Name:                entity.Name,
		Description:         entity.Description,
		Brand:               entity.Brand,
		BasePrice:           entity.BasePrice,
		BaseStock:           entity.BaseStock,
		IsActive:            entity.IsActive,
		PrimaryCategoryID:   entity.PrimaryCategoryID,
		SecondaryCategoryID: entity.SecondaryCategoryID,
		TertiaryCategoryID:  entity.TertiaryCategoryID,
		Fragrance:           entity.Fragrance,
		Specifications:      entity.Specifications,
		CareAndMaintenance:  entity.CareAndMaintenance,
		Warranty:            entity.Warranty,
		QnA:                 qnaJSON,
		Variants:            variantsJSON,
		Images:              imagesJSON,
		CreatedAt:           entity.CreatedAt,
		UpdatedAt:           entity.UpdatedAt,
	}, nil
}

func (ProductConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	var variantModels []VariantModel
	if len(model.Variants) > 0 {
		if err := json.Unmarshal(model.Variants, &variantModels); err != nil {
			return nil, err
		}
	}

	variants := make([]domain.Variant, 0, len(variantModels))
	for _, v := range variantModels {
		variants = append(variants, domain.Variant{
			Color: v.Color,
			Size:  v.Size,
			Price: v.Price,
			Stock: v.Stock,
			Image: v.Image,
		})
	}

	var qnaModels []QnAModel
	if len(model.QnA) > 0 {
		if err := json.Unmarshal(model.QnA, &qnaModels); err != nil {
			return nil, err
		}
	}

	qna := make([]domain.QnAEntry, 0, len(qnaModels))
	for _, q := range qnaModels {
		qna = append(qna, domain.QnAEntry{Question: q.Question, Answer: q.Answer})
	}

	var images []string
	if len(model.Images) > 0 {
		if err := json.Unmarshal(model.Images, &images); err != nil {
			return nil, err
		}
	}

	return &domain.Product{
		ID:                  model.ID,
		Name:                model.Name,
		Description:         model.Description,
		Brand:               model.Brand,
		BasePrice:           model.BasePrice,
		BaseStock:           model.BaseStock,
		IsActive:            model.IsActive,
		PrimaryCategoryID:   model.PrimaryCategoryID,
		SecondaryCategoryID: model.SecondaryCategoryID,
		TertiaryCategoryID:  model.TertiaryCategoryID,
		Fragrance:           model.Fragrance,
		Specifications:      model.Specifications,
		CareAndMaintenance:  model.CareAndMaintenance,
		Warranty:            model.Warranty,
		QnA:                 qna,
		Variants:            variants,
		Images:              images,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}, nil
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter struct{}

func NewCategoryConverter() CategoryConverter {
	return CategoryConverter{}
}

func (CategoryConverter) ToEntity(model *CategoryModel) domain.Category {
	return domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		Level:     model.Level,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter {
	return OutboxEventConverter{}
}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}

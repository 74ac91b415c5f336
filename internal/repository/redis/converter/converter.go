package converter

import "github.com/trivshopy/catalog-backend/internal/domain"

// ProductConverter преобразует сущности Product между domain и JSON-моделью кэша.
type ProductConverter struct{}

func NewProductConverter() ProductConverter {
	return ProductConverter{}
}

func (c ProductConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	variants := make([]VariantRedisModel, 0, len(entity.Variants))
	for _, v := range entity.Variants {
		variants = append(variants, VariantRedisModel{
			Color: v.Color,
			Size:  v.Size,
			Price: v.Price,
			Stock: v.Stock,
			Image: v.Image,
		})
	}

	qna := make([]QnARedisModel, 0, len(entity.QnA))
	for _, q := range entity.QnA {
		qna = append(qna, QnARedisModel{Question: q.Question, Answer: q.Answer})
	}

	return &ProductRedisModel{
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
		PrimaryCategory:     categoryToModel(entity.PrimaryCategory),
		SecondaryCategory:   categoryToModel(entity.SecondaryCategory),
		TertiaryCategory:    categoryToModel(entity.TertiaryCategory),
		Fragrance:           entity.Fragrance,
		Specifications:      entity.Specifications,
		CareAndMaintenance:  entity.CareAndMaintenance,
		Warranty:            entity.Warranty,
		QnA:                 qna,
		Variants:            variants,
		Images:              entity.Images,
		CreatedAt:           entity.CreatedAt,
		UpdatedAt:           entity.UpdatedAt,
	}
}

func (c ProductConverter) ToEntity(model *ProductRedisModel) *domain.Product {
	variants := make([]domain.Variant, 0, len(model.Variants))
	for _, v := range model.Variants {
		variants = append(variants, domain.Variant{
			Color: v.Color,
			Size:  v.Size,
			Price: v.Price,
			Stock: v.Stock,
			Image: v.Image,
		})
	}

	qna := make([]domain.QnAEntry, 0, len(model.QnA))
	for _, q := range model.QnA {
		qna = append(qna, domain.QnAEntry{Question: q.Question, Answer: q.Answer})
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
		PrimaryCategory:     categoryToEntity(model.PrimaryCategory),
		SecondaryCategory:   categoryToEntity(model.SecondaryCategory),
		TertiaryCategory:    categoryToEntity(model.TertiaryCategory),
		Fragrance:           model.Fragrance,
		Specifications:      model.Specifications,
		CareAndMaintenance:  model.CareAndMaintenance,
		Warranty:            model.Warranty,
		QnA:                 qna,
		Variants:            variants,
		Images:              model.Images,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func categoryToModel(c *domain.Category) *CategoryRedisModel {
	if c == nil {
		return nil
	}

	return &CategoryRedisModel{ID: c.ID, Name: c.Name, Level: c.Level}
}

func categoryToEntity(m *CategoryRedisModel) *domain.Category {
	if m == nil {
		return nil
	}

	return &domain.Category{ID: m.ID, Name: m.Name, Level: m.Level}
}

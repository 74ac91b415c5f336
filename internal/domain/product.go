package domain

import "time"

// QnAEntry — вопрос-ответ карточки товара.
type QnAEntry struct {
	Question string
	Answer   string
}

// Variant описывает вариант товара (цвет/размер) с собственной ценой,
// остатком и изображением.
type Variant struct {
	Color string
	Size  string
	Price int64 // Цена хранится в копейках
	Stock int64
	Image string
}

// Key возвращает ключ идентичности варианта: конкатенация цвета и размера.
// Ключ не уникален: два варианта с одинаковыми цветом и размером совпадут,
// и сопоставление с ранее сохранённым вариантом отработает для обоих одинаково.
func (v Variant) Key() string {
	return v.Color + v.Size
}

// Product описывает товар каталога.
type Product struct {
	ID                  int64
	Name                string
	Description         string
	Brand               string
	BasePrice           int64 // Цена хранится в копейках
	BaseStock           int64
	IsActive            bool
	PrimaryCategoryID   int64
	SecondaryCategoryID *int64
	TertiaryCategoryID  *int64
	Fragrance           string
	Specifications      string
	CareAndMaintenance  string
	Warranty            string
	QnA                 []QnAEntry
	Variants            []Variant
	Images              []string
	CreatedAt           time.Time
	UpdatedAt           *time.Time

	// Заполняются при чтении по ссылкам на категории
	PrimaryCategory   *Category
	SecondaryCategory *Category
	TertiaryCategory  *Category
}

// CategoryIDs возвращает список идентификаторов категорий, на которые
// ссылается товар.
func (p *Product) CategoryIDs() []int64 {
	ids := []int64{p.PrimaryCategoryID}
	if p.SecondaryCategoryID != nil {
		ids = append(ids, *p.SecondaryCategoryID)
	}
	if p.TertiaryCategoryID != nil {
		ids = append(ids, *p.TertiaryCategoryID)
	}

	return ids
}

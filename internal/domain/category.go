package domain

import "time"

// Уровни иерархии категорий.
const (
	CategoryLevelPrimary   = "primary"
	CategoryLevelSecondary = "secondary"
	CategoryLevelTertiary  = "tertiary"
)

// Category описывает категорию товара. Ядро каталога категории не изменяет,
// только разыменовывает их по ID при чтении.
type Category struct {
	ID        int64
	Name      string
	Level     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

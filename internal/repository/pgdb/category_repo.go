package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/repository/pgdb/converter"
	"github.com/trivshopy/catalog-backend/pkg/e"
)

// CategoryRepo реализует read-only репозиторий категорий поверх PostgreSQL.
// Каталог категории не изменяет, только разыменовывает их по ID.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// GetByIDs возвращает категории по идентификаторам. Отсутствующие ID
// молча пропускаются: ссылка без категории остаётся неразыменованной.
func (c *CategoryRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Category, error) {
	if len(ids) == 0 {
		return map[int64]domain.Category{}, nil
	}

	query := `
		SELECT id, name, level, created_at, updated_at
		FROM categories
		WHERE id = ANY($1)
	`

	rows, err := c.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64]domain.Category, len(ids))
	for rows.Next() {
		var model converter.CategoryModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Level, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result[model.ID] = c.conv.ToEntity(&model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/repository/pgdb/converter"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/tr"
)

const productColumns = `
	id, name, description, brand, base_price, base_stock, is_active,
	primary_category_id, secondary_category_id, tertiary_category_id,
	fragrance, specifications, care_and_maintenance, warranty,
	qna, variants, images, created_at, updated_at
`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет новый товар. Требует транзакцию в контексте.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := p.conv.ToModel(product)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (
			name, description, brand, base_price, base_stock, is_active,
			primary_category_id, secondary_category_id, tertiary_category_id,
			fragrance, specifications, care_and_maintenance, warranty,
			qna, variants, images
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at;
	`

	err = tx.QueryRow(ctx, query,
		model.Name, model.Description, model.Brand, model.BasePrice, model.BaseStock, model.IsActive,
		model.PrimaryCategoryID, model.SecondaryCategoryID, model.TertiaryCategoryID,
		model.Fragrance, model.Specifications, model.CareAndMaintenance, model.Warranty,
		model.QnA, model.Variants, model.Images,
	).Scan(&model.ID, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model)
}

// Update заменяет поля товара по id. Требует транзакцию в контексте.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := p.conv.ToModel(product)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products SET
			name = $2, description = $3, brand = $4, base_price = $5,
			base_stock = $6, is_active = $7, primary_category_id = $8,
			secondary_category_id = $9, tertiary_category_id = $10,
			fragrance = $11, specifications = $12, care_and_maintenance = $13,
			warranty = $14, qna = $15, variants = $16, images = $17,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at;
	`

	err = tx.QueryRow(ctx, query,
		model.ID,
		model.Name, model.Description, model.Brand, model.BasePrice,
		model.BaseStock, model.IsActive, model.PrimaryCategoryID,
		model.SecondaryCategoryID, model.TertiaryCategoryID,
		model.Fragrance, model.Specifications, model.CareAndMaintenance,
		model.Warranty, model.QnA, model.Variants, model.Images,
	).Scan(&model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model)
}

// Delete удаляет товар по id. Требует транзакцию в контексте.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// GetByID возвращает товар по id.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	model, err := p.scanProduct(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model)
}

// GetAll возвращает все товары, новые первыми.
func (p *ProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.Product, 0)
	for rows.Next() {
		model, err := p.scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		product, err := p.conv.ToEntity(model)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Brand,
		&model.BasePrice, &model.BaseStock, &model.IsActive,
		&model.PrimaryCategoryID, &model.SecondaryCategoryID, &model.TertiaryCategoryID,
		&model.Fragrance, &model.Specifications, &model.CareAndMaintenance, &model.Warranty,
		&model.QnA, &model.Variants, &model.Images,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

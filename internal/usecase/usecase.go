package usecase

import (
	"context"

	"github.com/trivshopy/catalog-backend/internal/domain"
)

// ProductUC — операции каталога товаров.
type ProductUC interface {
	CreateProduct(ctx context.Context, req *SaveProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, req *SaveProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	ToggleProductStatus(ctx context.Context, productID int64) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductByID(ctx context.Context, productID int64) (*domain.Product, error)
}

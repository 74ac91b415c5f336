package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/logger"
	"github.com/trivshopy/catalog-backend/pkg/tr"
)

// ProductUseCase реализует конвейер согласования товара:
// разбор входа → загрузка изображений → слияние вариантов → сохранение.
// Каждая стадия либо завершается целиком, либо операция прерывается
// без частичной записи; изображения, загруженные к моменту сбоя,
// удаляются компенсирующей очисткой.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	dbPool       transaction.Transactional
	mediaInfra   MediaInfra
	cacheRepo    CacheRepository
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	mediaInfra MediaInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		dbPool:       dbPool,
		mediaInfra:   mediaInfra,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// CreateProduct создаёт товар с изображениями и вариантами.
// При ненулевом числе вариантов число загружаемых изображений вариантов
// должно совпадать с ним в точности: N-е изображение позиционно
// принадлежит N-му варианту.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *SaveProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.validateSaveReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Проверка соответствия количества до единой загрузки, чтобы не
	// оставлять осиротевшие объекты в медиа-хранилище.
	if len(req.Variants) > 0 && len(req.VariantImages) != len(req.Variants) {
		return nil, e.Wrap(
			fmt.Sprintf("%s: variants: %d, variant images: %d", op, len(req.Variants), len(req.VariantImages)),
			e.ErrImageCountMismatch,
		)
	}

	var (
		uploadedKeys []string
		persisted    bool
	)
	defer func() {
		if !persisted && len(uploadedKeys) > 0 {
			p.mediaInfra.CleanupImages(uploadedKeys)
		}
	}()

	mainRes, variantRes, err := p.uploadAll(ctx, req, &uploadedKeys)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	baseStock := int64(0)
	if req.BaseStock != nil {
		baseStock = *req.BaseStock
	}

	variants := make([]domain.Variant, 0, len(req.Variants))
	for i, in := range req.Variants {
		variants = append(variants, domain.Variant{
			Color: in.Color,
			Size:  in.Size,
			Price: valueOr(in.Price, req.BasePrice),
			Stock: valueOr(in.Stock, baseStock),
			Image: variantRes.URLs[i],
		})
	}

	product := &domain.Product{
		Name:                req.Name,
		Description:         stringOr(req.Description, ""),
		Brand:               stringOr(req.Brand, ""),
		BasePrice:           req.BasePrice,
		BaseStock:           baseStock,
		IsActive:            req.IsActive == nil || *req.IsActive,
		PrimaryCategoryID:   req.PrimaryCategoryID,
		SecondaryCategoryID: req.SecondaryCategoryID,
		TertiaryCategoryID:  req.TertiaryCategoryID,
		Fragrance:           stringOr(req.Fragrance, ""),
		Specifications:      stringOr(req.Specifications, ""),
		CareAndMaintenance:  stringOr(req.CareAndMaintenance, ""),
		Warranty:            stringOr(req.Warranty, ""),
		QnA:                 req.QnA,
		Variants:            variants,
		Images:              mainRes.URLs,
	}

	var created *domain.Product
	err = p.withTx(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = p.productRepo.Create(ctx, product)
		if txErr != nil {
			return txErr
		}

		return p.recordChangeEvent(ctx, ProductUpsert, created.ID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	persisted = true

	if err := p.populateCategories(ctx, created); err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// UpdateProduct обновляет товар, согласуя входящие варианты с ранее
// сохранёнными. Изображение каждого варианта разрешается по приоритету:
// загруженный файл с тем же индексом → поле image из payload →
// изображение сохранённого варианта с тем же ключом цвет+размер.
// Если ни один источник не дал изображения, обновление прерывается целиком.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, productID int64, req *SaveProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := p.validateSaveReq(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Между чтением и записью блокировка не удерживается: при
	// одновременных обновлениях одного товара побеждает последняя запись.
	existing, err := p.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		uploadedKeys []string
		persisted    bool
	)
	defer func() {
		if !persisted && len(uploadedKeys) > 0 {
			p.mediaInfra.CleanupImages(uploadedKeys)
		}
	}()

	mainRes, variantRes, err := p.uploadAll(ctx, req, &uploadedKeys)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	updated := *existing
	updated.Name = req.Name
	updated.BasePrice = req.BasePrice
	updated.PrimaryCategoryID = req.PrimaryCategoryID
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Brand != nil {
		updated.Brand = *req.Brand
	}
	if req.BaseStock != nil {
		updated.BaseStock = *req.BaseStock
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	// Отсутствующая вторичная/третичная категория не сбрасывает сохранённую.
	if req.SecondaryCategoryID != nil {
		updated.SecondaryCategoryID = req.SecondaryCategoryID
	}
	if req.TertiaryCategoryID != nil {
		updated.TertiaryCategoryID = req.TertiaryCategoryID
	}
	if req.Fragrance != nil {
		updated.Fragrance = *req.Fragrance
	}
	if req.Specifications != nil {
		updated.Specifications = *req.Specifications
	}
	if req.CareAndMaintenance != nil {
		updated.CareAndMaintenance = *req.CareAndMaintenance
	}
	if req.Warranty != nil {
		updated.Warranty = *req.Warranty
	}

	merged, err := p.mergeVariants(req, existing.Variants, variantRes.URLs, updated.BaseStock)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	updated.Variants = merged
	updated.QnA = req.QnA

	// Новые основные изображения целиком заменяют прежний список;
	// без новых файлов прежний список сохраняется как есть.
	if len(mainRes.URLs) > 0 {
		updated.Images = mainRes.URLs
	}

	var saved *domain.Product
	err = p.withTx(ctx, func(ctx context.Context) error {
		var txErr error
		saved, txErr = p.productRepo.Update(ctx, &updated)
		if txErr != nil {
			return txErr
		}

		return p.recordChangeEvent(ctx, ProductUpsert, saved.ID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	persisted = true

	p.invalidateCache(ctx, productID)

	if err := p.populateCategories(ctx, saved); err != nil {
		return nil, e.Wrap(op, err)
	}

	return saved, nil
}

// DeleteProduct удаляет товар по идентификатору.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, productID int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if _, err := p.productRepo.GetByID(ctx, productID); err != nil {
		return e.Wrap(op, err)
	}

	err := p.withTx(ctx, func(ctx context.Context) error {
		if txErr := p.productRepo.Delete(ctx, productID); txErr != nil {
			return txErr
		}

		return p.recordChangeEvent(ctx, ProductDelete, productID)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, productID)

	return nil
}

// ToggleProductStatus инвертирует признак видимости товара.
func (p *ProductUseCase) ToggleProductStatus(ctx context.Context, productID int64) (*domain.Product, error) {
	const op = "ProductUseCase.ToggleProductStatus"

	product, err := p.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product.IsActive = !product.IsActive

	var saved *domain.Product
	err = p.withTx(ctx, func(ctx context.Context) error {
		var txErr error
		saved, txErr = p.productRepo.Update(ctx, product)
		if txErr != nil {
			return txErr
		}

		return p.recordChangeEvent(ctx, ProductUpsert, saved.ID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, productID)

	if err := p.populateCategories(ctx, saved); err != nil {
		return nil, e.Wrap(op, err)
	}

	return saved, nil
}

// GetAllProducts возвращает товары каталога, новые первыми.
func (p *ProductUseCase) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	const op = "ProductUseCase.GetAllProducts"

	products, err := p.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.populateCategories(ctx, products...); err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProductByID возвращает товар с разыменованными категориями,
// отдавая закэшированное представление, когда оно есть.
func (p *ProductUseCase) GetProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProductByID"

	cached, err := p.cacheRepo.GetProduct(ctx, productID)
	if err != nil {
		p.logger.Warnf("cache lookup failed for product %d: %v", productID, err)
	} else if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.populateCategories(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("background cache set failed: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// mergeVariants согласует входящие варианты с ранее сохранёнными.
func (p *ProductUseCase) mergeVariants(req *SaveProductReq, previous []domain.Variant, uploadedURLs []string, baseStock int64) ([]domain.Variant, error) {
	prev := make(map[string]domain.Variant, len(previous))
	for _, v := range previous {
		prev[v.Key()] = v
	}

	merged := make([]domain.Variant, 0, len(req.Variants))
	for i, in := range req.Variants {
		image := ""
		switch {
		case i < len(uploadedURLs):
			image = uploadedURLs[i]
		case in.Image != nil && *in.Image != "":
			image = *in.Image
		default:
			if stored, ok := prev[in.Key()]; ok {
				image = stored.Image
			}
		}

		if image == "" {
			return nil, e.Wrap(
				fmt.Sprintf("image required for variant with key %q", in.Key()),
				e.ErrVariantImageRequired,
			)
		}

		merged = append(merged, domain.Variant{
			Color: in.Color,
			Size:  in.Size,
			Price: valueOr(in.Price, req.BasePrice),
			Stock: valueOr(in.Stock, baseStock),
			Image: image,
		})
	}

	return merged, nil
}

// uploadAll загружает основные изображения и изображения вариантов,
// накапливая ключи успешно загруженных объектов для компенсирующей очистки.
// Изображения вариантов не отправляются, если вариантов в запросе нет:
// позиционно их не к чему привязать.
func (p *ProductUseCase) uploadAll(ctx context.Context, req *SaveProductReq, uploadedKeys *[]string) (*UploadImagesRes, *UploadImagesRes, error) {
	mainRes := NewUploadImagesRes(nil, nil)
	variantRes := NewUploadImagesRes(nil, nil)

	if len(req.Images) > 0 {
		res, err := p.mediaInfra.UploadImages(ctx, NewUploadImagesReq(FolderProductImages, req.Images))
		if err != nil {
			return nil, nil, e.Wrap("main images", err)
		}
		mainRes = res
		*uploadedKeys = append(*uploadedKeys, res.Keys...)
	}

	if len(req.VariantImages) > 0 && len(req.Variants) > 0 {
		res, err := p.mediaInfra.UploadImages(ctx, NewUploadImagesReq(FolderVariantImages, req.VariantImages))
		if err != nil {
			return nil, nil, e.Wrap("variant images", err)
		}
		variantRes = res
		*uploadedKeys = append(*uploadedKeys, res.Keys...)
	}

	return mainRes, variantRes, nil
}

// withTx выполняет fn в транзакции, пробрасывая её через контекст.
func (p *ProductUseCase) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return err
	}

	ctx = tr.CtxWithTx(ctx, tx.Transaction().(pgx.Tx))

	if err := fn(ctx); err != nil {
		if tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				p.logger.Warnf("rollback failed: %v", rbErr)
			}
		}

		return err
	}

	return tx.Commit(ctx)
}

// recordChangeEvent пишет событие изменения товара в outbox той же транзакцией.
func (p *ProductUseCase) recordChangeEvent(ctx context.Context, eventType OutboxEventType, productID int64) error {
	eventID := uuid.NewString()

	payload, err := json.Marshal(NewProductChangeEvent(eventID, eventType, productID))
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, NewOutboxEvent(eventID, eventType, productID, payload))
	return err
}

// populateCategories разыменовывает ссылки товаров на категории.
func (p *ProductUseCase) populateCategories(ctx context.Context, products ...*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	seen := make(map[int64]struct{})
	ids := make([]int64, 0, len(products))
	for _, product := range products {
		for _, id := range product.CategoryIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	categories, err := p.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, product := range products {
		product.PrimaryCategory = categoryRef(categories, product.PrimaryCategoryID)
		if product.SecondaryCategoryID != nil {
			product.SecondaryCategory = categoryRef(categories, *product.SecondaryCategoryID)
		}
		if product.TertiaryCategoryID != nil {
			product.TertiaryCategory = categoryRef(categories, *product.TertiaryCategoryID)
		}
	}

	return nil
}

// invalidateCache удаляет товар из кэша; ошибки кэша не прерывают операцию.
func (p *ProductUseCase) invalidateCache(ctx context.Context, productID int64) {
	if err := p.cacheRepo.DeleteProduct(ctx, productID); err != nil {
		p.logger.Warnf("failed to invalidate cached product %d: %v", productID, err)
	}
}

// validateSaveReq проверяет инварианты, общие для создания и обновления.
func (p *ProductUseCase) validateSaveReq(req *SaveProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.BasePrice <= 0 {
		return e.ErrInvalidPrice
	}

	if req.PrimaryCategoryID <= 0 {
		return e.ErrPrimaryCategoryRequired
	}

	return nil
}

func categoryRef(categories map[int64]domain.Category, id int64) *domain.Category {
	if c, ok := categories[id]; ok {
		return &c
	}

	return nil
}

func valueOr(v *int64, fallback int64) int64 {
	if v != nil {
		return *v
	}

	return fallback
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}

	return fallback
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

// fakeTx — pgx.Tx-заглушка для транзакционного менеджера.
type fakeTx struct{}

func (fakeTx) Begin(ctx context.Context) (pgx.Tx, error)       { return nil, nil }
func (fakeTx) Commit(ctx context.Context) error                { return nil }
func (fakeTx) Rollback(ctx context.Context) error              { return nil }
func (fakeTx) Conn() *pgx.Conn                                 { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                  { return pgx.LargeObjects{} }
func (fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

type fakeTransactional struct{}

func (fakeTransactional) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return fakeTx{}, nil
}

// fakeProductRepo хранит товары в памяти.
type fakeProductRepo struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*domain.Product
	updates int
	creates int

	failUpdate error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{nextID: 1, items: map[int64]*domain.Product{}}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates++
	p := *product
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.nextID++
	f.items[p.ID] = &p

	out := p
	return &out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	if _, ok := f.items[product.ID]; !ok {
		return nil, e.ErrProductNotFound
	}

	f.updates++
	p := *product
	f.items[p.ID] = &p

	out := p
	return &out, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.items[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	out := *p
	return &out, nil
}

func (f *fakeProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Product, 0, len(f.items))
	for _, p := range f.items {
		out := *p
		result = append(result, &out)
	}
	return result, nil
}

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Category, error) {
	result := make(map[int64]domain.Category, len(ids))
	for _, id := range ids {
		result[id] = domain.Category{ID: id, Name: fmt.Sprintf("category-%d", id), Level: domain.CategoryLevelPrimary}
	}
	return result, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error { return nil }

// fakeMediaInfra выдаёт детерминированные ссылки вида <folder>/u<N>.
type fakeMediaInfra struct {
	mu          sync.Mutex
	uploadCalls int
	cleanedKeys []string
	failFolder  string
	seq         int
}

func (f *fakeMediaInfra) UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploadCalls++
	if f.failFolder != "" && req.Folder == f.failFolder {
		return nil, e.ErrUploadFailed
	}

	urls := make([]string, 0, len(req.Images))
	keys := make([]string, 0, len(req.Images))
	for range req.Images {
		f.seq++
		keys = append(keys, fmt.Sprintf("%s/u%d", req.Folder, f.seq))
		urls = append(urls, fmt.Sprintf("http://cdn/%s/u%d", req.Folder, f.seq))
	}

	return NewUploadImagesRes(urls, keys), nil
}

func (f *fakeMediaInfra) CleanupImages(keys []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanedKeys = append(f.cleanedKeys, keys...)
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	items   map[int64]*domain.Product
	deleted []int64
	setCh   chan int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{items: map[int64]*domain.Product{}, setCh: make(chan int64, 8)}
}

func (f *fakeCacheRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.items[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (f *fakeCacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	f.mu.Lock()
	out := *product
	f.items[product.ID] = &out
	f.mu.Unlock()

	select {
	case f.setCh <- product.ID:
	default:
	}
	return nil
}

func (f *fakeCacheRepo) DeleteProduct(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type ucFixture struct {
	uc       *ProductUseCase
	products *fakeProductRepo
	outbox   *fakeOutboxRepo
	media    *fakeMediaInfra
	cache    *fakeCacheRepo
}

func newFixture() *ucFixture {
	products := newFakeProductRepo()
	outbox := &fakeOutboxRepo{}
	media := &fakeMediaInfra{}
	cache := newFakeCacheRepo()

	uc := NewProductUC(
		products,
		fakeCategoryRepo{},
		outbox,
		fakeTransactional{},
		media,
		cache,
		logger.NewNopLogger(),
	)

	return &ucFixture{uc: uc, products: products, outbox: outbox, media: media, cache: cache}
}

func ptr[T any](v T) *T { return &v }

func validCreateReq() *SaveProductReq {
	return &SaveProductReq{
		Name:              "Кресло садовое",
		BasePrice:         59999,
		PrimaryCategoryID: 3,
	}
}

func variantImage(name string) ProductImage {
	return *NewProductImage([]byte("img-"+name), "image/jpeg", 8, name+".jpg")
}

func TestCreateProduct_VariantImageCountMismatch(t *testing.T) {
	f := newFixture()

	req := validCreateReq()
	req.Variants = []VariantInput{
		{Color: "red", Size: "M"},
		{Color: "blue", Size: "L"},
	}
	req.VariantImages = []ProductImage{variantImage("one")}

	_, err := f.uc.CreateProduct(context.Background(), req)
	require.ErrorIs(t, err, e.ErrImageCountMismatch)

	// Проверка срабатывает до загрузок: хранилище не трогается.
	assert.Equal(t, 0, f.media.uploadCalls)
	assert.Equal(t, 0, f.products.creates)
}

func TestCreateProduct_VariantsInheritBasePriceAndStock(t *testing.T) {
	f := newFixture()

	req := validCreateReq()
	req.BaseStock = ptr(int64(10))
	req.Variants = []VariantInput{
		{Color: "red", Size: "M"},
		{Color: "blue", Size: "L", Price: ptr(int64(64999)), Stock: ptr(int64(2))},
	}
	req.VariantImages = []ProductImage{variantImage("red"), variantImage("blue")}

	created, err := f.uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, created.Variants, 2)

	assert.Equal(t, int64(59999), created.Variants[0].Price, "вариант без цены наследует базовую")
	assert.Equal(t, int64(10), created.Variants[0].Stock, "вариант без остатка наследует базовый")
	assert.Equal(t, int64(64999), created.Variants[1].Price)
	assert.Equal(t, int64(2), created.Variants[1].Stock)

	// Позиционная привязка: N-е изображение к N-му варианту.
	assert.Contains(t, created.Variants[0].Image, "u1")
	assert.Contains(t, created.Variants[1].Image, "u2")
}

func TestCreateProduct_RecordsUpsertEvent(t *testing.T) {
	f := newFixture()

	created, err := f.uc.CreateProduct(context.Background(), validCreateReq())
	require.NoError(t, err)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, ProductUpsert, f.outbox.events[0].EventType)
	assert.Equal(t, created.ID, f.outbox.events[0].ProductID)
	assert.Equal(t, Pending, f.outbox.events[0].Status)
}

func TestCreateProduct_PopulatesCategories(t *testing.T) {
	f := newFixture()

	req := validCreateReq()
	req.SecondaryCategoryID = ptr(int64(7))

	created, err := f.uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, created.PrimaryCategory)
	assert.Equal(t, int64(3), created.PrimaryCategory.ID)
	require.NotNil(t, created.SecondaryCategory)
	assert.Equal(t, int64(7), created.SecondaryCategory.ID)
	assert.Nil(t, created.TertiaryCategory)
}

func TestCreateProduct_UploadFailureCleansUpNothingPersisted(t *testing.T) {
	f := newFixture()
	f.media.failFolder = FolderVariantImages

	req := validCreateReq()
	req.Images = []ProductImage{variantImage("main")}
	req.Variants = []VariantInput{{Color: "red", Size: "M"}}
	req.VariantImages = []ProductImage{variantImage("red")}

	_, err := f.uc.CreateProduct(context.Background(), req)
	require.ErrorIs(t, err, e.ErrUploadFailed)

	assert.Equal(t, 0, f.products.creates)
	// Основные изображения успели загрузиться и должны быть вычищены.
	assert.NotEmpty(t, f.media.cleanedKeys)
}

func seedProduct(t *testing.T, f *ucFixture) *domain.Product {
	t.Helper()

	req := validCreateReq()
	req.BaseStock = ptr(int64(5))
	req.Variants = []VariantInput{{Color: "red", Size: "M"}}
	req.VariantImages = []ProductImage{variantImage("red")}
	req.Images = []ProductImage{variantImage("cover")}

	created, err := f.uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	return created
}

func TestUpdateProduct_VariantKeepsStoredImageByKey(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)
	storedImage := created.Variants[0].Image

	req := validCreateReq()
	req.Variants = []VariantInput{
		{Color: "red", Size: "M"}, // без нового файла и без image
		{Color: "blue", Size: "L", Image: ptr("http://cdn/external/blue.jpg")},
	}

	updated, err := f.uc.UpdateProduct(context.Background(), created.ID, req)
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)

	assert.Equal(t, storedImage, updated.Variants[0].Image,
		"вариант red-M без нового изображения сохраняет прежнее по ключу цвет+размер")
	assert.Equal(t, "http://cdn/external/blue.jpg", updated.Variants[1].Image)
}

func TestUpdateProduct_UnresolvableVariantImageFailsWholeUpdate(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	req := validCreateReq()
	req.Variants = []VariantInput{
		{Color: "red", Size: "M"},
		{Color: "blue", Size: "L"}, // нет ни файла, ни image, ни сохранённого варианта
	}
	req.VariantImages = []ProductImage{variantImage("red-new")}

	_, err := f.uc.UpdateProduct(context.Background(), created.ID, req)
	require.ErrorIs(t, err, e.ErrVariantImageRequired)

	// Ничего не записано, загруженное вычищено.
	assert.Equal(t, 0, f.products.updates)
	assert.NotEmpty(t, f.media.cleanedKeys)

	current, err := f.products.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Variants, current.Variants)
}

func TestUpdateProduct_UploadedImageWinsOverStored(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	req := validCreateReq()
	req.Variants = []VariantInput{{Color: "red", Size: "M", Image: ptr("http://cdn/inline.jpg")}}
	req.VariantImages = []ProductImage{variantImage("red-v2")}

	updated, err := f.uc.UpdateProduct(context.Background(), created.ID, req)
	require.NoError(t, err)

	assert.NotEqual(t, created.Variants[0].Image, updated.Variants[0].Image)
	assert.NotEqual(t, "http://cdn/inline.jpg", updated.Variants[0].Image,
		"загруженный файл в приоритете над полем image")
}

func TestUpdateProduct_ImagesRetainedWithoutNewUploads(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	req := validCreateReq()
	updated, err := f.uc.UpdateProduct(context.Background(), created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, created.Images, updated.Images)
}

func TestUpdateProduct_AbsentScalarsKeepStoredValues(t *testing.T) {
	f := newFixture()

	req := validCreateReq()
	req.Description = ptr("Описание из каталога")
	req.Brand = ptr("Trivshopy Home")
	req.BaseStock = ptr(int64(7))
	created, err := f.uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	// Обновление без description/brand/baseStock.
	updated, err := f.uc.UpdateProduct(context.Background(), created.ID, validCreateReq())
	require.NoError(t, err)

	assert.Equal(t, "Описание из каталога", updated.Description)
	assert.Equal(t, "Trivshopy Home", updated.Brand)
	assert.Equal(t, int64(7), updated.BaseStock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.UpdateProduct(context.Background(), 404, validCreateReq())
	require.ErrorIs(t, err, e.ErrProductNotFound)
	assert.Equal(t, 0, f.media.uploadCalls, "загрузки не начинаются для несуществующего товара")
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	_, err := f.uc.UpdateProduct(context.Background(), created.ID, validCreateReq())
	require.NoError(t, err)

	assert.Contains(t, f.cache.deleted, created.ID)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	require.NoError(t, f.uc.DeleteProduct(context.Background(), created.ID))

	_, err := f.products.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, e.ErrProductNotFound)

	last := f.outbox.events[len(f.outbox.events)-1]
	assert.Equal(t, ProductDelete, last.EventType)
	assert.Contains(t, f.cache.deleted, created.ID)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	f := newFixture()

	err := f.uc.DeleteProduct(context.Background(), 404)
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestToggleProductStatus_DoubleToggleRestoresState(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)
	require.True(t, created.IsActive)

	toggled, err := f.uc.ToggleProductStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	restored, err := f.uc.ToggleProductStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
}

func TestGetProductByID_CacheHitSkipsRepository(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	cachedCopy := *created
	cachedCopy.Name = "из кэша"
	require.NoError(t, f.cache.SetProduct(context.Background(), &cachedCopy))

	got, err := f.uc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "из кэша", got.Name)
}

func TestGetProductByID_CacheMissPopulatesCacheInBackground(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	got, err := f.uc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.PrimaryCategory)

	select {
	case id := <-f.cache.setCh:
		assert.Equal(t, created.ID, id)
	case <-time.After(time.Second):
		t.Fatal("товар не попал в кэш в фоне")
	}
}

func TestGetProductByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.GetProductByID(context.Background(), 404)
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *SaveProductReq)
		wantErr error
	}{
		{name: "пустое имя", mutate: func(r *SaveProductReq) { r.Name = "  " }, wantErr: e.ErrProductNameRequired},
		{name: "нулевая цена", mutate: func(r *SaveProductReq) { r.BasePrice = 0 }, wantErr: e.ErrInvalidPrice},
		{name: "нет основной категории", mutate: func(r *SaveProductReq) { r.PrimaryCategoryID = 0 }, wantErr: e.ErrPrimaryCategoryRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validCreateReq()
			tt.mutate(req)

			_, err := f.uc.CreateProduct(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.products.creates)
		})
	}
}

func TestCreateProduct_SuccessDoesNotCleanup(t *testing.T) {
	f := newFixture()

	req := validCreateReq()
	req.Images = []ProductImage{variantImage("cover")}

	_, err := f.uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, f.media.cleanedKeys, "после успешной записи компенсация не запускается")
}

func TestUpdateProduct_RepoFailureTriggersCleanup(t *testing.T) {
	f := newFixture()
	created := seedProduct(t, f)

	errRepoDown := errors.New("repo down")
	f.products.failUpdate = errRepoDown

	req := validCreateReq()
	req.Images = []ProductImage{variantImage("cover-v2")}

	_, err := f.uc.UpdateProduct(context.Background(), created.ID, req)
	require.ErrorIs(t, err, errRepoDown)
	assert.NotEmpty(t, f.media.cleanedKeys, "незаписанные загрузки должны быть вычищены")
}

package minio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trivshopy/catalog-backend/internal/cfg"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

// fakeImageRepo имитирует MinIO-репозиторий с управляемыми задержками и ошибками.
type fakeImageRepo struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failOn   string        // имя файла, загрузка которого падает
	delays   map[string]time.Duration
}

func (f *fakeImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	if d, ok := f.delayFor(image.ObjectKey); ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if f.failOn != "" && strings.Contains(image.ObjectKey, f.failOn) {
		return "", errors.New("upload failed")
	}

	f.mu.Lock()
	f.uploaded = append(f.uploaded, image.ObjectKey)
	f.mu.Unlock()

	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, key)
	f.mu.Unlock()

	return nil
}

func newTestCfg() *cfg.MinIOCfg {
	return &cfg.MinIOCfg{
		Endpoint:          "localhost:9000",
		PublicEndpoint:    "localhost:9000",
		BucketName:        "catalog",
		UseSSL:            false,
		UploadImagesLimit: 2,
	}
}

func newImages(names ...string) []usecase.ProductImage {
	images := make([]usecase.ProductImage, 0, len(names))
	for _, name := range names {
		images = append(images, usecase.ProductImage{
			Data:     []byte("payload-" + name),
			MimeType: "image/jpeg",
			Size:     int64(len(name)),
			Name:     name + ".jpg",
		})
	}

	return images
}

func TestUploadImages_PreservesSubmissionOrder(t *testing.T) {
	repo := &fakeImageRepo{
		// Первый файл загружается дольше остальных: порядок завершения
		// отличается от порядка отправки.
		delays: map[string]time.Duration{},
	}
	infra := NewMinioInfrastructure(repo, newTestCfg(), logger.NewNopLogger(), context.Background())

	images := newImages("first", "second", "third")
	repo.delays["products/variants/first"] = 50 * time.Millisecond

	res, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq(usecase.FolderVariantImages, images))
	require.NoError(t, err)
	require.Len(t, res.URLs, 3)
	require.Len(t, res.Keys, 3)

	for i, name := range []string{"first", "second", "third"} {
		assert.Contains(t, res.Keys[i], name, "позиция %d должна соответствовать файлу %s", i, name)
		assert.Contains(t, res.URLs[i], name)
	}
}

func TestUploadImages_URLsPointToBucket(t *testing.T) {
	repo := &fakeImageRepo{}
	infra := NewMinioInfrastructure(repo, newTestCfg(), logger.NewNopLogger(), context.Background())

	res, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq(usecase.FolderProductImages, newImages("cover")))
	require.NoError(t, err)
	require.Len(t, res.URLs, 1)

	assert.True(t, strings.HasPrefix(res.URLs[0], "http://localhost:9000/catalog/products/"),
		"unexpected URL: %s", res.URLs[0])
}

func TestUploadImages_FailureCleansUpUploaded(t *testing.T) {
	repo := &fakeImageRepo{failOn: "bad"}
	infra := NewMinioInfrastructure(repo, newTestCfg(), logger.NewNopLogger(), context.Background())

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq(usecase.FolderProductImages, newImages("good", "bad")))
	require.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, infra.WaitForCleanup(ctx))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, key := range repo.uploaded {
		assert.Contains(t, repo.deleted, key, "загруженный объект %s должен быть удалён компенсацией", key)
	}
}

func TestUploadImages_RejectsUnknownMIME(t *testing.T) {
	repo := &fakeImageRepo{}
	infra := NewMinioInfrastructure(repo, newTestCfg(), logger.NewNopLogger(), context.Background())

	images := []usecase.ProductImage{{
		Data:     []byte("gif payload"),
		MimeType: "image/gif",
		Size:     11,
		Name:     "animated.gif",
	}}

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq(usecase.FolderProductImages, images))
	require.Error(t, err)
	assert.Empty(t, repo.uploaded)
}

func TestUploadImages_Empty(t *testing.T) {
	repo := &fakeImageRepo{}
	infra := NewMinioInfrastructure(repo, newTestCfg(), logger.NewNopLogger(), context.Background())

	res, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq(usecase.FolderProductImages, nil))
	require.NoError(t, err)
	assert.Empty(t, res.URLs)
	assert.Empty(t, res.Keys)
}

func TestCleanupImages_RemovesKeys(t *testing.T) {
	repo := &fakeImageRepo{}
	infra := NewMinioInfrastructure(repo, newTestCfg(), logger.NewNopLogger(), context.Background())

	keys := []string{"products/a.jpg", "products/b.jpg"}
	infra.CleanupImages(keys)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, infra.WaitForCleanup(ctx))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.ElementsMatch(t, keys, repo.deleted)
}

// delayFor сопоставляет задержку по префиксу ключа: полный ключ
// содержит сгенерированный uuid и заранее не известен.
func (f *fakeImageRepo) delayFor(objKey string) (time.Duration, bool) {
	for prefix, d := range f.delays {
		if strings.HasPrefix(objKey, prefix) {
			return d, true
		}
	}

	return 0, false
}

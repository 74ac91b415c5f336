package minio

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trivshopy/catalog-backend/internal/cfg"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/internal/infrastructure"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/jitter"
	"github.com/trivshopy/catalog-backend/pkg/logger"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой и компенсирующей очисткой
// изображений товара в MinIO.
type MinioInfrastructure struct {
	minioRepo         usecase.ImageRepository
	cfg               *cfg.MinIOCfg
	logger            logger.Logger
	shutdownCtx       context.Context
	wg                sync.WaitGroup
	uploadImagesLimit int
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg,
	logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:         minioRepo,
		cfg:               cfg,
		logger:            logger,
		shutdownCtx:       shutdownCtx,
		uploadImagesLimit: cfg.UploadImagesLimit,
	}
}

// UploadImages загружает изображения параллельно с ограничением
// одновременных операций. Результаты возвращаются в порядке отправки:
// позиция ссылки в ответе однозначно соответствует позиции файла в
// запросе, на этом держится привязка изображений к вариантам.
// При первой ошибке остальные загрузки отменяются, а уже загруженные
// объекты отправляются в фоновую очистку.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"

	if len(req.Images) == 0 {
		return usecase.NewUploadImagesRes(nil, nil), nil
	}

	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make([]string, len(req.Images))
	errs := make([]error, len(req.Images))
	sem := make(chan struct{}, m.uploadImagesLimit)

	var uploadWg sync.WaitGroup
	for i, image := range req.Images {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			key, err := m.uploadOne(ctx, req.Folder, image)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}

			keys[i] = key
		}()
	}
	uploadWg.Wait()

	uploaded := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			uploaded = append(uploaded, key)
		}
	}

	for _, err := range errs {
		if err != nil {
			if len(uploaded) > 0 {
				m.wg.Add(1)
				go m.cleanupUploadedKeys(uploaded)
			}

			return nil, e.Wrap(op, err)
		}
	}

	urls := make([]string, len(keys))
	for i, key := range keys {
		urls[i] = m.cfg.ObjectURL(key)
	}

	return usecase.NewUploadImagesRes(urls, keys), nil
}

// uploadOne формирует ключ объекта и загружает один файл.
func (m *MinioInfrastructure) uploadOne(ctx context.Context, folder string, image usecase.ProductImage) (string, error) {
	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return "", fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
	}

	imageID := uuid.NewString()
	objKey := path.Join(folder, fmt.Sprintf("%s-%s.%s", sanitizeName(image.Name), imageID, ext))
	newImage := domain.NewImage(imageID, m.cfg.BucketName, objKey, image.Data, &image.Size, &image.MimeType)

	key, err := m.minioRepo.Upload(ctx, newImage)
	if err != nil {
		return "", fmt.Errorf("upload %s failed: %w", image.Name, err)
	}

	return key, nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO.
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}

	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			if err := m.minioRepo.Delete(ctx, key); err == nil {
				break
			}

			select {
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			default:
			}

			if attempt < cleanupAttempts-1 {
				sleepTime := jitter.ExponentialBackoff(time.Second, 10*time.Second, attempt, jitter.DefaultJitter)

				select {
				case <-time.After(sleepTime):
				case <-ctx.Done():
					m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
					return
				}
			}
		}
	}
}

// WaitForCleanup ожидает завершения фоновых задач очистки при остановке приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

// sanitizeName приводит имя файла к безопасному фрагменту ключа объекта.
func sanitizeName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)

	if base == "" {
		return "image"
	}

	return base
}

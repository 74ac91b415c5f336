package minio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/trivshopy/catalog-backend/internal/domain"
	"github.com/trivshopy/catalog-backend/pkg/e"
)

// ImageRepo хранит изображения товаров в S3-совместимом хранилище.
type ImageRepo struct {
	client *minio.Client
	bucket string
}

func NewImageRepo(client *minio.Client, bucket string) *ImageRepo {
	return &ImageRepo{
		client: client,
		bucket: bucket,
	}
}

// Upload кладёт объект в бакет и возвращает его ключ.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	opts := minio.PutObjectOptions{}
	if image.ContentType != nil {
		opts.ContentType = *image.ContentType
	}

	size := int64(len(image.Bytes))
	if image.Size != nil {
		size = *image.Size
	}

	bucket := image.Bucket
	if bucket == "" {
		bucket = i.bucket
	}

	reader := bytes.NewReader(image.Bytes)

	info, err := i.client.PutObject(ctx, bucket, image.ObjectKey, reader, size, opts)
	if err != nil {
		return "", fmt.Errorf("%s: failed to upload object %s: %w", whereami.WhereAmI(), image.ObjectKey, e.ErrUploadFailed)
	}

	return info.Key, nil
}

// Delete удаляет объект из бакета. Отсутствие объекта ошибкой не считается.
func (i *ImageRepo) Delete(ctx context.Context, objectKey string) error {
	err := i.client.RemoveObject(ctx, i.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

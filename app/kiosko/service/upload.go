package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	ext "kiosko/config"
	"kiosko/common/log"
)

// UploadFile stores a multipart upload in object storage and returns its
// public URL. Objects are keyed by media kind derived from the declared
// content type: image/, video/ or raw/ (documents and everything else).
func (svc *KioskoService) UploadFile(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil || header.Size == 0 {
		return "", errors.New("archivo vacío")
	}
	file, err := header.Open()
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return "", err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	kind := "raw"
	switch {
	case strings.HasPrefix(contentType, "image"):
		kind = "image"
	case strings.HasPrefix(contentType, "video"):
		kind = "video"
	}
	objectName := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), path.Ext(header.Filename))

	cfg := ext.Conf.MinIO
	_, err = svc.MinIOClient.PutObject(ctx, cfg.MediaBucket, objectName, file, header.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		log.Logger().WithContext(ctx).Error("minio save file: ", err.Error())
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(cfg.PublicURL, "/"), cfg.MediaBucket, objectName), nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinIOClient struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOClient создает клиент для MinIO
func NewMinIOClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Создаем bucket если не существует
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", bucketName)
	}

	return &MinIOClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadProspectus загружает проспект эмиссии и возвращает имя объекта
func (m *MinIOClient) UploadProspectus(fileData []byte, originalFilename string) (string, error) {
	ctx := context.Background()

	// Уникальное имя объекта на латинице
	ext := filepath.Ext(originalFilename)
	newFilename := fmt.Sprintf("prospectus_%s_%d%s",
		uuid.New().String()[:8],
		time.Now().Unix(),
		ext)

	contentType := "application/octet-stream"
	switch strings.ToLower(ext) {
	case ".pdf":
		contentType = "application/pdf"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	}

	reader := bytes.NewReader(fileData)
	_, err := m.client.PutObject(ctx, m.bucketName, newFilename, reader, int64(len(fileData)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	logrus.Infof("File %s uploaded successfully", newFilename)
	return newFilename, nil
}

// DeleteProspectus удаляет объект из MinIO
func (m *MinIOClient) DeleteProspectus(filename string) error {
	ctx := context.Background()

	err := m.client.RemoveObject(ctx, m.bucketName, filename, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logrus.Infof("File %s deleted successfully", filename)
	return nil
}

// GetProspectusURL возвращает временный URL для скачивания (1 час)
func (m *MinIOClient) GetProspectusURL(filename string) (string, error) {
	ctx := context.Background()

	url, err := m.client.PresignedGetObject(ctx, m.bucketName, filename, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"libris_back_end/internal/database"
)

// UploadCoverImage envoie une couverture dans le bucket et retourne la clé
// objet à stocker dans la fiche produit.
func UploadCoverImage(ctx context.Context, productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join("covers", productID+path.Ext(file.Filename))
	_, err = database.MinIO.PutObject(ctx, os.Getenv("MINIO_BUCKET"), key, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return key, nil
}

// GenerateSignedURL génère une URL signée à durée limitée pour une clé
// objet du bucket. Les chemins statiques (images de seed, "/images/...")
// sont renvoyés tels quels.
func GenerateSignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error) {
	if strings.HasPrefix(objectKey, "/") || database.MinIO == nil {
		return objectKey, nil
	}

	presignedURL, err := database.MinIO.PresignedGetObject(
		ctx,
		os.Getenv("MINIO_BUCKET"),
		objectKey,
		duration,
		make(url.Values),
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

package filestorage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinIOStorage(bucket, publicPath, endpoint, accessKeyID, secretAccessKey string) *MinIOStorage {
	m, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: true,
	})
	if err != nil {
		panic(err)
	}
	return &MinIOStorage{
		client:     m,
		bucket:     bucket,
		publicPath: publicPath,
	}
}

type MinIOStorage struct {
	client     *minio.Client
	bucket     string
	publicPath string
}

// UploadFile writes the object at the given key. Keys are derived to be
// unique per upload, so an existing object is never overwritten.
func (f *MinIOStorage) UploadFile(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := f.client.PutObject(
		ctx,
		f.bucket,
		f.publicPath+"/"+path,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

func (f *MinIOStorage) DeleteFile(ctx context.Context, path string) error {
	return f.client.RemoveObject(ctx, f.bucket, f.publicPath+"/"+path, minio.RemoveObjectOptions{})
}

func (f *MinIOStorage) GetPublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s", f.client.EndpointURL(), f.bucket, f.publicPath, path)
}

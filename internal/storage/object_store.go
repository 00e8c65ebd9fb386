package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/juju/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioAPI is the subset of *minio.Client the object store uses.
type MinioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type ObjectStore interface {
	PutJSON(ctx context.Context, objectName string, body []byte) error
	// PresignedURL returns a temporary download link. A missing object is
	// reported as errors.NotFound.
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioStore struct {
	client MinioAPI
	bucket string
}

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

func NewObjectStore(client MinioAPI, bucket string) ObjectStore {
	return &minioStore{client: client, bucket: bucket}
}

func (m *minioStore) PutJSON(ctx context.Context, objectName string, body []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return errors.Annotatef(err, "put %s/%s", m.bucket, objectName)
}

func (m *minioStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if _, err := m.client.StatObject(ctx, m.bucket, objectName, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", errors.NotFoundf("object %s", objectName)
		}
		return "", errors.Annotatef(err, "stat %s/%s", m.bucket, objectName)
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Annotate(err, "presign")
	}
	return u.String(), nil
}

func (m *minioStore) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return errors.Annotatef(err, "check bucket %s", m.bucket)
	}
	if !found {
		return errors.Annotatef(m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}), "make bucket %s", m.bucket)
	}
	return nil
}

func (m *minioStore) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}

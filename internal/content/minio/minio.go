package minio

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"arabic-reader/internal/content"
	"arabic-reader/internal/errs"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Store keeps texts as objects named by their content id.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// New connects to the object store and creates the bucket if missing.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return NewWithClient(ctx, cli, cfg.Bucket, cfg.Prefix)
}

func NewWithClient(ctx context.Context, cli *minio.Client, bucket, prefix string) (*Store, error) {
	has, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", bucket)
	}
	if !has {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", bucket)
		}
	}
	return &Store{client: cli, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *Store) Store(ctx context.Context, text string) (string, error) {
	id := content.ID(text)
	_, err := s.client.StatObject(ctx, s.bucket, s.key(id), minio.StatObjectOptions{})
	if err == nil {
		return id, nil
	}
	if !isNoSuchKey(err) {
		return "", err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key(id), strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", errors.Wrapf(err, "put %s", id)
	}
	return id, nil
}

func (s *Store) Retrieve(ctx context.Context, id string) (string, error) {
	if err := content.CheckID(id); err != nil {
		return "", err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(id), minio.GetObjectOptions{})
	if err != nil {
		return "", s.notFound(err, id)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return "", s.notFound(err, id)
	}
	return string(data), nil
}

func (s *Store) key(id string) string {
	if s.prefix == "" {
		return id + ".txt"
	}
	return path.Join(s.prefix, id+".txt")
}

func (s *Store) notFound(err error, id string) error {
	if isNoSuchKey(err) {
		return errs.WrapNotFound("content", id)
	}
	return err
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

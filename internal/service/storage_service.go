package service

import (
	"bytes"
	"context"
	"edu_portal/internal/config"
	"edu_portal/internal/util"
	"edu_portal/pkg/logger"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MirrorProvider 保存上传文档的副本，返回可访问的地址
type MirrorProvider interface {
	Put(ctx context.Context, object string, reader io.Reader, size int64, contentType string) (string, error)
}

// LocalMirror 写入本地目录，由门户的 /uploads 静态路由提供访问
type LocalMirror struct {
	Root string
}

func (p *LocalMirror) Put(_ context.Context, object string, reader io.Reader, _ int64, _ string) (string, error) {
	clean := path.Clean("/" + object)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object name %q", object)
	}
	dst := filepath.Join(p.Root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return "/uploads/" + clean, nil
}

// MinioMirror 写入 MinIO bucket
type MinioMirror struct {
	Bucket   string
	Endpoint string
	Secure   bool
	Client   *minio.Client
}

func NewMinioMirror(ctx context.Context, cfg *config.StorageConfig) (*MinioMirror, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Log.Info("Created document bucket", zap.String("bucket", cfg.MinioBucket))
	}
	return &MinioMirror{Bucket: cfg.MinioBucket, Endpoint: cfg.MinioEndpoint, Secure: cfg.MinioSecure, Client: client}, nil
}

func (p *MinioMirror) Put(ctx context.Context, object string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	scheme := "http"
	if p.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.Endpoint, p.Bucket, object), nil
}

// StorageService 文档镜像；Provider 为 nil 时不做镜像
type StorageService struct {
	Provider MirrorProvider
	now      func() time.Time
}

func NewStorageService(ctx context.Context, cfg *config.Config) *StorageService {
	var provider MirrorProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioMirror(ctx, &cfg.Storage)
		if err != nil {
			logger.Log.Error("Failed to initialize minio storage, document mirroring disabled", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageLocal:
		provider = &LocalMirror{Root: cfg.Storage.LocalPath}
	}
	return &StorageService{Provider: provider}
}

func (s *StorageService) Enabled() bool {
	return s != nil && s.Provider != nil
}

// ObjectName documents/2026/10/<uuid>-<文件名>
func ObjectName(prefix, filename string, now time.Time) string {
	base := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	return path.Join(prefix, now.Format("2006/01"), fmt.Sprintf("%s-%s", uuid.NewString(), base))
}

// Mirror 保存 content 的副本，返回对象地址
func (s *StorageService) Mirror(ctx context.Context, prefix, filename string, content []byte) (string, error) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	object := ObjectName(prefix, filename, now())
	return s.Provider.Put(ctx, object, bytes.NewReader(content), int64(len(content)), util.DetectContentType(filename, content))
}

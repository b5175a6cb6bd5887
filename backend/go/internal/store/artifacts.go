package store

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
)

// ArtifactStore 管理 MinIO 中的 assembly FASTA、报告包和原始输出。
type ArtifactStore struct {
	client         *minio.Client
	bucket         string
	assemblyBucket string
}

// NewArtifactStore 创建 ArtifactStore。
func NewArtifactStore(client *minio.Client, bucket, assemblyBucket string) *ArtifactStore {
	return &ArtifactStore{client: client, bucket: bucket, assemblyBucket: assemblyBucket}
}

// AssemblyKey 返回基因组引用对应的 assembly 对象名，例如 "12/3/1" -> "12_3_1.fa"。
func AssemblyKey(genomeRef string) string {
	return strings.ReplaceAll(strings.Trim(genomeRef, "/"), "/", "_") + ".fa"
}

// DownloadAssembly 把 genomeRef 的 assembly FASTA 下载到 dst。
func (s *ArtifactStore) DownloadAssembly(ctx context.Context, genomeRef, dst string) error {
	key := AssemblyKey(genomeRef)
	if err := s.client.FGetObject(ctx, s.assemblyBucket, key, dst, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download assembly %s/%s: %w", s.assemblyBucket, key, err)
	}
	return nil
}

// UploadFile 上传本地文件到 prefix 下，内容类型由文件内容检测。返回对象名。
func (s *ArtifactStore) UploadFile(ctx context.Context, prefix, localPath string) (string, error) {
	key := path.Join(prefix, filepath.Base(localPath))
	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}
	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

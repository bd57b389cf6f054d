package aws

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
)

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PublisherImpl implementa o ReportPublisher enviando arquivos para um bucket S3.
type S3PublisherImpl struct {
	bucket  string
	prefix  string
	profile string

	mu     sync.Mutex
	client ObjectPutter
}

// NewS3Publisher cria um publisher. O cliente S3 é criado na primeira publicação
// a partir do perfil informado (ou da cadeia padrão de credenciais).
func NewS3Publisher(bucket, prefix, profile string) repository.ReportPublisher {
	return &S3PublisherImpl{bucket: bucket, prefix: prefix, profile: profile}
}

// NewS3PublisherWithClient cria um publisher com um cliente já configurado.
func NewS3PublisherWithClient(client ObjectPutter, bucket, prefix string) repository.ReportPublisher {
	return &S3PublisherImpl{bucket: bucket, prefix: prefix, client: client}
}

func (p *S3PublisherImpl) getClient(ctx context.Context) (ObjectPutter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	var opts []func(*config.LoadOptions) error
	if p.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(p.profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %q: %w", p.profile, err)
	}
	p.client = s3.NewFromConfig(cfg)
	return p.client, nil
}

// Publish uploads localPath and returns its s3:// URI.
func (p *S3PublisherImpl) Publish(ctx context.Context, localPath string) (string, error) {
	if p.bucket == "" {
		return "", fmt.Errorf("no S3 bucket configured")
	}
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening report %s: %w", localPath, err)
	}
	defer file.Close()

	key := ObjectKey(p.prefix, localPath)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s to s3://%s/%s: %w", filepath.Base(localPath), p.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}

// ObjectKey joins the prefix and the file's base name with forward slashes.
func ObjectKey(prefix, localPath string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return filepath.Base(localPath)
	}
	return path.Join(prefix, filepath.Base(localPath))
}

func contentType(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

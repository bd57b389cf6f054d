package repository

import "context"

// ReportPublisher uploads exported report files to remote storage.
type ReportPublisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

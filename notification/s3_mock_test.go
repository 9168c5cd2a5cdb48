package notification

import (
	"context"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
)

type mockS3Client struct {
	contentType string
	healthErr   error
	lookups     int
	lastBucket  string
	lastKey     string
}

func (s *mockS3Client) ContentTypeOf(ctx context.Context, bucketName string, objectKey string) string {
	s.lookups++
	s.lastBucket = bucketName
	s.lastKey = objectKey
	if s.contentType == "" {
		return "application/octet-stream"
	}
	return s.contentType
}

func (s *mockS3Client) Healthcheck() fthealth.Check {
	return fthealth.Check{
		Name: "Mock S3",
		Checker: func() (string, error) {
			if s.healthErr != nil {
				return "", s.healthErr
			}
			return "", nil
		},
	}
}

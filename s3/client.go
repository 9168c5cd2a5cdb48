package s3

import (
	"context"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const defaultContentType = "application/octet-stream"

type Client interface {
	ContentTypeOf(ctx context.Context, bucketName string, objectKey string) string
	Healthcheck() fthealth.Check
}

type MetadataClient struct {
	s3  *s3.S3
	log *logger.UPPLogger
}

func NewClient(awsRegion string, log *logger.UPPLogger) (Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(awsRegion),
		MaxRetries: aws.Int(0),
	})
	if err != nil {
		return &MetadataClient{}, err
	}
	return &MetadataClient{s3: s3.New(sess), log: log}, nil
}

// ContentTypeOf resolves the stored content type of an object with a single
// HeadObject call. Lookups are best effort: any failure is logged and the
// default content type returned, so a notification always goes out.
func (c *MetadataClient) ContentTypeOf(ctx context.Context, bucketName string, objectKey string) string {
	out, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		entry := c.log.WithError(err).WithField("bucket_name", bucketName).WithField("object_key", objectKey)
		e, ok := err.(awserr.Error)
		if !ok {
			entry.Warn("Content type lookup failed, using default")
			return defaultContentType
		}
		switch e.Code() {
		// HeadObject reports a missing key as a bodyless 404, hence "NotFound"
		case s3.ErrCodeNoSuchKey, "NotFound":
			entry.Warn("Object not found while resolving content type, using default")
		case s3.ErrCodeNoSuchBucket:
			entry.Warn("Bucket not found while resolving content type, using default")
		case "AccessDenied", "Forbidden":
			entry.Warn("Access denied while resolving content type, using default")
		default:
			entry.Warnf("Content type lookup failed with %s, using default", e.Code())
		}
		return defaultContentType
	}
	if out.ContentType == nil || *out.ContentType == "" {
		c.log.WithField("object_key", objectKey).Warn("Object has no stored content type, using default")
		return defaultContentType
	}
	return *out.ContentType
}

func (c *MetadataClient) Healthcheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   "Upload notifications fall back to a generic content type",
		Name:             "Check connectivity to S3",
		PanicGuide:       "https://github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier",
		Severity:         2,
		TechnicalSummary: `Cannot connect to S3. Content type lookups will return "application/octet-stream" until access is restored`,
		Checker: func() (string, error) {
			if _, err := c.s3.ListBuckets(&s3.ListBucketsInput{}); err != nil {
				return "Cannot connect to S3", err
			}
			return "", nil
		},
	}
}

package notification

import (
	"context"
	"fmt"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"

	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/event"
	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/s3"
	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/sns"
)

// retryDelay separates the two publish attempts.
const retryDelay = time.Second

const invalidRecordMessage = "Failed to process S3 record - invalid format"

type Service interface {
	ProcessBatch(ctx context.Context, records []event.Record) BatchResult
	Notify(ctx context.Context, metadata event.FileMetadata) error
	Healthchecks() []fthealth.Check
}

type NotifierService struct {
	s3        s3.Client
	sns       sns.Client
	extractor *event.Extractor
	log       *logger.UPPLogger
	delay     func(time.Duration)
}

func NewService(s3Client s3.Client, snsClient sns.Client, log *logger.UPPLogger) Service {
	return &NotifierService{
		s3:        s3Client,
		sns:       snsClient,
		extractor: event.NewExtractor(log),
		log:       log,
		delay:     time.Sleep,
	}
}

// ProcessBatch walks the records in input order, extracting metadata and
// notifying per file. Per-record failures are collected, never fatal.
func (s *NotifierService) ProcessBatch(ctx context.Context, records []event.Record) BatchResult {
	result := BatchResult{ProcessedFiles: []string{}, Errors: []string{}}
	if len(records) == 0 {
		return result
	}

	ctx, tid := ensureTransactionID(ctx)
	log := s.log.WithTransactionID(tid)

	for _, record := range records {
		metadata, err := s.extractor.Extract(record)
		if err != nil {
			result.Errors = append(result.Errors, invalidRecordMessage)
			continue
		}
		if err := s.Notify(ctx, metadata); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to send notification for %s: %v", metadata.FileName, err))
			continue
		}
		log.Infof("Successfully processed and notified: %s", metadata.FileName)
		result.ProcessedFiles = append(result.ProcessedFiles, metadata.FileName)
	}

	log.Infof("Processed %d files, %d errors", len(result.ProcessedFiles), len(result.Errors))
	return result
}

// Notify publishes one upload notification. The publish is attempted twice at
// most, with a fixed pause between the attempts.
func (s *NotifierService) Notify(ctx context.Context, m event.FileMetadata) error {
	if err := validateMetadata(m); err != nil {
		return err
	}

	formattedSize, err := FormatFileSize(m.FileSize)
	if err != nil {
		return err
	}
	contentType := s.s3.ContentTypeOf(ctx, m.BucketName, m.ObjectKey)
	msg := ComposeMessage(m, contentType, formattedSize)

	tid, _ := transactionidutils.GetTransactionIDFromContext(ctx)

	messageID, err := s.sns.Publish(ctx, msg.Subject, msg.Body)
	if err != nil {
		s.log.WithError(err).WithTransactionID(tid).Warn("SNS publishing failed (attempt 1), retrying")
		s.delay(retryDelay)
		messageID, err = s.sns.Publish(ctx, msg.Subject, msg.Body)
	}
	if err != nil {
		s.log.WithError(err).WithTransactionID(tid).Error("Failed to send SNS notification after 2 attempts")
		return err
	}

	s.log.WithTransactionID(tid).Infof("SNS notification sent successfully. MessageId: %s", messageID)
	return nil
}

func (s *NotifierService) Healthchecks() []fthealth.Check {
	return []fthealth.Check{
		s.sns.Healthcheck(),
		s.s3.Healthcheck(),
	}
}

func validateMetadata(m event.FileMetadata) error {
	fields := []struct {
		name  string
		value string
	}{
		{"file_name", m.FileName},
		{"bucket_name", m.BucketName},
		{"object_key", m.ObjectKey},
		{"event_time", m.EventTime},
		{"aws_region", m.AWSRegion},
	}
	for _, field := range fields {
		if field.value == "" {
			return &MissingFieldError{Field: field.name}
		}
	}
	return nil
}

func ensureTransactionID(ctx context.Context) (context.Context, string) {
	tid, err := transactionidutils.GetTransactionIDFromContext(ctx)
	if err != nil {
		tid = transactionidutils.NewTransactionID()
		ctx = transactionidutils.TransactionAwareContext(ctx, tid)
	}
	return ctx, tid
}

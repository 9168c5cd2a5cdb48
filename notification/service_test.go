package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/event"
)

type serviceFixture struct {
	svc    *NotifierService
	s3     *mockS3Client
	sns    *mockSNSClient
	hook   *test.Hook
	delays []time.Duration
}

func newServiceFixture() *serviceFixture {
	log := logger.NewUPPLogger("test", "debug")
	hook := test.NewLocal(log.Logger)

	f := &serviceFixture{
		s3:   &mockS3Client{contentType: "application/pdf"},
		sns:  &mockSNSClient{},
		hook: hook,
	}
	f.svc = &NotifierService{
		s3:        f.s3,
		sns:       f.sns,
		extractor: event.NewExtractor(log),
		log:       log,
		delay:     func(d time.Duration) { f.delays = append(f.delays, d) },
	}
	return f
}

func TestNotifySuccess(t *testing.T) {
	f := newServiceFixture()

	err := f.svc.Notify(context.Background(), testMetadata())
	require.NoError(t, err)

	assert.Equal(t, 1, f.sns.attempts)
	assert.Empty(t, f.delays)
	assert.Equal(t, 1, f.s3.lookups)
	assert.Equal(t, "upload-bucket", f.s3.lastBucket)
	assert.Equal(t, "docs/report.pdf", f.s3.lastKey)

	require.Len(t, f.sns.published, 1)
	assert.Equal(t, "📁 New File Upload: report.pdf", f.sns.published[0].Subject)
	assert.Contains(t, f.sns.published[0].Body, "Size: 1.95 MB")
	assert.Contains(t, f.sns.published[0].Body, "Type: application/pdf")
}

func TestNotifyRetriesOnceThenSucceeds(t *testing.T) {
	f := newServiceFixture()
	f.sns.errs = []error{errors.New("InternalError: something went wrong")}

	err := f.svc.Notify(context.Background(), testMetadata())
	require.NoError(t, err)

	assert.Equal(t, 2, f.sns.attempts)
	require.Len(t, f.delays, 1)
	assert.Equal(t, time.Second, f.delays[0])

	retryWarning := findEntry(f.hook, logrus.WarnLevel, "SNS publishing failed (attempt 1), retrying")
	assert.NotNil(t, retryWarning)
}

func TestNotifyFailsAfterRetry(t *testing.T) {
	f := newServiceFixture()
	first := errors.New("Throttling: rate exceeded")
	second := errors.New("InternalError: still broken")
	f.sns.errs = []error{first, second}

	err := f.svc.Notify(context.Background(), testMetadata())
	require.Error(t, err)
	assert.Equal(t, second, err, "the retry's failure propagates, not the first attempt's")

	assert.Equal(t, 2, f.sns.attempts)
	assert.Len(t, f.delays, 1)

	finalError := findEntry(f.hook, logrus.ErrorLevel, "Failed to send SNS notification after 2 attempts")
	assert.NotNil(t, finalError)
}

func TestNotifyMissingFieldSkipsNetworkCalls(t *testing.T) {
	testCases := []struct {
		field  string
		mutate func(m *event.FileMetadata)
	}{
		{"file_name", func(m *event.FileMetadata) { m.FileName = "" }},
		{"bucket_name", func(m *event.FileMetadata) { m.BucketName = "" }},
		{"object_key", func(m *event.FileMetadata) { m.ObjectKey = "" }},
		{"event_time", func(m *event.FileMetadata) { m.EventTime = "" }},
		{"aws_region", func(m *event.FileMetadata) { m.AWSRegion = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.field, func(t *testing.T) {
			f := newServiceFixture()
			m := testMetadata()
			tc.mutate(&m)

			err := f.svc.Notify(context.Background(), m)
			require.Error(t, err)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.field, missing.Field)
			assert.Zero(t, f.sns.attempts)
			assert.Zero(t, f.s3.lookups)
		})
	}
}

func TestNotifyMissingEventTypeIsAllowed(t *testing.T) {
	f := newServiceFixture()
	m := testMetadata()
	m.EventType = ""

	require.NoError(t, f.svc.Notify(context.Background(), m))
	require.Len(t, f.sns.published, 1)
	assert.Contains(t, f.sns.published[0].Body, "Event Type: ObjectCreated\n")
}

func TestProcessBatchEmptyRecords(t *testing.T) {
	f := newServiceFixture()

	result := f.svc.ProcessBatch(context.Background(), nil)

	assert.Equal(t, BatchResult{ProcessedFiles: []string{}, Errors: []string{}}, result)
	assert.Zero(t, result.ProcessedCount())
	assert.Zero(t, f.s3.lookups)
	assert.Zero(t, f.sns.attempts)
}

func TestProcessBatchSingleValidRecord(t *testing.T) {
	f := newServiceFixture()
	records := []event.Record{uploadRecord("docs/report.pdf", 2048576)}

	result := f.svc.ProcessBatch(context.Background(), records)

	assert.Equal(t, []string{"report.pdf"}, result.ProcessedFiles)
	assert.Equal(t, 1, result.ProcessedCount())
	assert.Empty(t, result.Errors)
}

func TestProcessBatchMalformedRecordAmongValid(t *testing.T) {
	f := newServiceFixture()
	broken := uploadRecord("ignored", 1)
	broken.S3 = nil
	records := []event.Record{
		uploadRecord("a/first.txt", 100),
		broken,
		uploadRecord("b/second.txt", 200),
	}

	result := f.svc.ProcessBatch(context.Background(), records)

	assert.Equal(t, []string{"first.txt", "second.txt"}, result.ProcessedFiles)
	assert.Equal(t, []string{"Failed to process S3 record - invalid format"}, result.Errors)
	assert.Equal(t, 2, result.ProcessedCount())
}

func TestProcessBatchNotificationFailureDoesNotAbortBatch(t *testing.T) {
	f := newServiceFixture()
	// Both attempts for the first record fail, the second record goes through.
	f.sns.errs = []error{errors.New("boom"), errors.New("boom again")}
	records := []event.Record{
		uploadRecord("a/first.txt", 100),
		uploadRecord("b/second.txt", 200),
	}

	result := f.svc.ProcessBatch(context.Background(), records)

	assert.Equal(t, []string{"second.txt"}, result.ProcessedFiles)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Failed to send notification for first.txt:")
	assert.Contains(t, result.Errors[0], "boom again")
	assert.Equal(t, 3, f.sns.attempts)
}

func TestProcessBatchPreservesInputOrder(t *testing.T) {
	f := newServiceFixture()
	records := []event.Record{
		uploadRecord("1.txt", 1),
		uploadRecord("2.txt", 2),
		uploadRecord("3.txt", 3),
	}

	result := f.svc.ProcessBatch(context.Background(), records)

	assert.Equal(t, []string{"1.txt", "2.txt", "3.txt"}, result.ProcessedFiles)
	assert.LessOrEqual(t, result.ProcessedCount()+len(result.Errors), len(records))
}

func uploadRecord(key string, size int64) event.Record {
	return event.Record{
		EventSource: "aws:s3",
		EventName:   "ObjectCreated:Put",
		EventTime:   "2024-01-01T12:00:00.000Z",
		AWSRegion:   "eu-west-1",
		S3: &event.S3{
			Bucket: &event.Bucket{Name: "upload-bucket"},
			Object: &event.Object{Key: key, Size: jsonSize(size)},
		},
	}
}

func jsonSize(size int64) json.RawMessage {
	return json.RawMessage(strconv.FormatInt(size, 10))
}

func findEntry(hook *test.Hook, level logrus.Level, message string) *logrus.Entry {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == message {
			return entry
		}
	}
	return nil
}

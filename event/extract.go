package event

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/pkg/errors"
)

const s3EventSource = "aws:s3"

var (
	ErrUnexpectedEventSource = errors.New("record is not from the S3 event source")
	ErrMissingS3Payload      = errors.New("record has no s3 payload")
	ErrMissingBucketName     = errors.New("record has no bucket name")
	ErrMissingObjectInfo     = errors.New("record has no object info")
	ErrMissingObjectKey      = errors.New("record has no object key")
	ErrMissingObjectSize     = errors.New("record has no object size")
	ErrInvalidObjectSize     = errors.New("record object size is not a non-negative whole number")
	ErrMissingEventTime      = errors.New("record has no event time")
)

type Extractor struct {
	log *logger.UPPLogger
}

func NewExtractor(log *logger.UPPLogger) *Extractor {
	return &Extractor{log: log}
}

// Extract validates one raw upload record and normalises it into FileMetadata.
// Every validation failure is logged and returned as one of the package
// sentinel errors; callers treat any error as a rejection of that record only.
func (e *Extractor) Extract(r Record) (FileMetadata, error) {
	if r.EventSource != s3EventSource {
		e.log.WithField("event_source", r.EventSource).Warn("Skipping record from unexpected event source")
		return FileMetadata{}, ErrUnexpectedEventSource
	}
	if r.S3 == nil {
		e.log.Error("Missing 's3' field in record")
		return FileMetadata{}, ErrMissingS3Payload
	}
	if r.S3.Bucket == nil || r.S3.Bucket.Name == "" {
		e.log.Error("Missing bucket name in S3 event")
		return FileMetadata{}, ErrMissingBucketName
	}
	if r.S3.Object == nil {
		e.log.Error("Missing object info in S3 event")
		return FileMetadata{}, ErrMissingObjectInfo
	}
	rawKey := r.S3.Object.Key
	if rawKey == "" {
		e.log.Error("Missing object key in S3 event")
		return FileMetadata{}, ErrMissingObjectKey
	}

	// Keys arrive form-encoded: "+" is a space, "%2B" a literal plus.
	objectKey, err := url.QueryUnescape(rawKey)
	if err != nil {
		e.log.WithError(err).WithField("object_key", rawKey).Warn("Could not decode object key, using it as-is")
		objectKey = rawKey
	}

	fileName := objectKey
	if idx := strings.LastIndex(objectKey, "/"); idx >= 0 {
		fileName = objectKey[idx+1:]
	}

	size, err := coerceSize(r.S3.Object.Size)
	if err != nil {
		e.log.WithError(err).WithField("object_key", objectKey).Error("Missing or invalid file size in S3 event")
		return FileMetadata{}, err
	}

	if r.EventTime == "" {
		e.log.WithField("object_key", objectKey).Error("Missing event time in S3 event")
		return FileMetadata{}, ErrMissingEventTime
	}

	eventType := r.EventName
	if eventType == "" {
		eventType = "Unknown"
	}
	awsRegion := r.AWSRegion
	if awsRegion == "" {
		awsRegion = "Unknown"
	}

	return FileMetadata{
		BucketName: r.S3.Bucket.Name,
		FileName:   fileName,
		ObjectKey:  objectKey,
		FileSize:   size,
		EventTime:  r.EventTime,
		EventType:  eventType,
		AWSRegion:  awsRegion,
	}, nil
}

// coerceSize accepts the size shapes notifications have been seen to carry:
// JSON numbers (floats truncate) and integer-shaped strings. Absent and null
// report as missing, everything else that cannot produce a non-negative
// whole number as invalid.
func coerceSize(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, ErrMissingObjectSize
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0, ErrInvalidObjectSize
		}
		return n, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f < 0 {
			return 0, ErrInvalidObjectSize
		}
		return int64(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		parsed, perr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if perr != nil || parsed < 0 {
			return 0, ErrInvalidObjectSize
		}
		return parsed, nil
	}
	return 0, ErrInvalidObjectSize
}

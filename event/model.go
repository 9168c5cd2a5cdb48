package event

import "encoding/json"

// S3 event notification format. Records arrive as the Lambda invocation
// payload or as the body of a local POST. The nested fields are pointers and
// raw JSON on purpose: upstream producers have been seen to omit fields or
// send the size as a string, and validation needs to tell those cases apart.
type UploadEvent struct {
	Records []Record `json:"Records"`
}

type Record struct {
	EventSource string `json:"eventSource"`
	EventName   string `json:"eventName"`
	EventTime   string `json:"eventTime"`
	AWSRegion   string `json:"awsRegion"`
	S3          *S3    `json:"s3"`
}

type S3 struct {
	Bucket *Bucket `json:"bucket"`
	Object *Object `json:"object"`
}

type Bucket struct {
	Name string `json:"name"`
}

type Object struct {
	Key  string          `json:"key"`
	Size json.RawMessage `json:"size"`
}

// FileMetadata is the normalised description of one uploaded object, built by
// the Extractor from a raw record and consumed immediately by the notifier.
type FileMetadata struct {
	BucketName string
	FileName   string
	ObjectKey  string
	FileSize   int64
	EventTime  string
	EventType  string
	AWSRegion  string
}

package notification

import (
	"fmt"
	"unicode/utf8"

	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/event"
)

const (
	subjectPrefix    = "📁 New File Upload: "
	maxSubjectLength = 100
	truncationMark   = "..."

	defaultEventType = "ObjectCreated"
)

// Subscribers scrape the body sections, so labels, emoji, indentation and
// ordering are part of the interface.
const bodyTemplate = `📁 FILE UPLOAD NOTIFICATION

📄 FILE DETAILS
   Name: %s
   Size: %s
   Type: %s

📍 LOCATION
   Bucket: %s
   Region: %s
   Path: %s

⏰ TIMESTAMP
   Event Time: %s
   Event Type: %s

🔗 S3 CONSOLE LINK
   https://s3.console.aws.amazon.com/s3/object/%s?region=%s&prefix=%s

This notification was generated automatically by the S3 Upload Notifier system.`

// ComposeMessage builds the subject and body announcing one uploaded file.
// The formatted size and content type are resolved by the caller.
func ComposeMessage(m event.FileMetadata, contentType string, formattedSize string) Message {
	eventType := m.EventType
	if eventType == "" {
		eventType = defaultEventType
	}
	body := fmt.Sprintf(bodyTemplate,
		m.FileName, formattedSize, contentType,
		m.BucketName, m.AWSRegion, m.ObjectKey,
		m.EventTime, eventType,
		m.BucketName, m.AWSRegion, m.ObjectKey)
	return Message{Subject: composeSubject(m.FileName), Body: body}
}

// composeSubject keeps the subject within the 100 character SNS limit,
// counted in code points rather than bytes.
func composeSubject(fileName string) string {
	subject := subjectPrefix + fileName
	if utf8.RuneCountInString(subject) <= maxSubjectLength {
		return subject
	}
	budget := maxSubjectLength - utf8.RuneCountInString(subjectPrefix+truncationMark)
	return subjectPrefix + string([]rune(fileName)[:budget]) + truncationMark
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	logger "github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/event"
	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/sns"
)

// Response is the invocation envelope returned to the event source. The body
// is a JSON-encoded string, matching the API Gateway / Lambda proxy shape.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type resultBody struct {
	Message        string   `json:"message"`
	ProcessedCount int      `json:"processed_count"`
	ProcessedFiles []string `json:"processed_files"`
	Errors         []string `json:"errors"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadHandler is the entry point for a batch of upload records. It owns the
// per-invocation concerns: topic configuration validation, request
// identification, and mapping outcomes onto the response envelope.
type UploadHandler struct {
	svc      Service
	topicArn string
	log      *logger.UPPLogger
}

func NewUploadHandler(svc Service, topicArn string, log *logger.UPPLogger) *UploadHandler {
	return &UploadHandler{svc: svc, topicArn: topicArn, log: log}
}

// Handle processes one batch of upload records and always returns an envelope,
// never a Go error: per-record failures ride in the body, configuration and
// internal failures become 500 envelopes. Lambda therefore never retries the
// invocation on its own.
func (h *UploadHandler) Handle(ctx context.Context, ev event.UploadEvent) (resp Response, _ error) {
	ctx, requestID := requestContext(ctx)
	log := h.log.WithTransactionID(requestID)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Unexpected error during processing: %v", r)
			resp = errorResponse("Internal server error", fmt.Sprintf("%v", r))
		}
	}()

	log.Infof("Processing started. Request ID: %s", requestID)
	log.Infof("Received event with %d records", len(ev.Records))

	if err := sns.ValidateTopicARN(h.topicArn); err != nil {
		log.WithError(err).Error("Configuration error")
		return errorResponse("Configuration error", err.Error()), nil
	}

	if len(ev.Records) == 0 {
		log.Warn("No records found in event")
		return resultResponse("No records to process", BatchResult{ProcessedFiles: []string{}, Errors: []string{}}), nil
	}

	result := h.svc.ProcessBatch(ctx, ev.Records)
	return resultResponse("Processing completed successfully", result), nil
}

// requestContext determines the request identifier: the Lambda request ID when
// running in Lambda, the transaction ID already on the context otherwise, or a
// freshly generated one. The identifier doubles as the transaction ID so every
// log line of the invocation carries it.
func requestContext(ctx context.Context) (context.Context, string) {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return transactionidutils.TransactionAwareContext(ctx, lc.AwsRequestID), lc.AwsRequestID
	}
	return ensureTransactionID(ctx)
}

func resultResponse(message string, result BatchResult) Response {
	return envelope(http.StatusOK, resultBody{
		Message:        message,
		ProcessedCount: result.ProcessedCount(),
		ProcessedFiles: result.ProcessedFiles,
		Errors:         result.Errors,
	})
}

func errorResponse(kind string, message string) Response {
	return envelope(http.StatusInternalServerError, errorBody{Error: kind, Message: message})
}

func envelope(statusCode int, body interface{}) Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		// Both body shapes are flat string structures, so this cannot happen.
		return Response{StatusCode: http.StatusInternalServerError, Body: `{"error":"Internal server error","message":"response encoding failed"}`}
	}
	return Response{StatusCode: statusCode, Body: string(encoded)}
}

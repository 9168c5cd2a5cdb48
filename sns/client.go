package sns

import (
	"context"
	"strings"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/pkg/errors"
)

const topicARNPrefix = "arn:aws:sns:"

type Client interface {
	Publish(ctx context.Context, subject string, body string) (string, error)
	Healthcheck() fthealth.Check
}

type NotificationClient struct {
	sns      *sns.SNS
	topicArn string
	log      *logger.UPPLogger
}

func NewClient(awsRegion string, topicArn string, log *logger.UPPLogger) (Client, error) {
	// Retries are owned by the notifier, which makes exactly one extra attempt.
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(awsRegion),
		MaxRetries: aws.Int(0),
	})
	if err != nil {
		log.WithError(err).Error("Unable to create an SNS client")
		return &NotificationClient{}, err
	}
	return &NotificationClient{
		sns:      sns.New(sess),
		topicArn: topicArn,
		log:      log,
	}, nil
}

// Publish sends one message to the configured topic and returns the SNS
// message ID of the delivery.
func (c *NotificationClient) Publish(ctx context.Context, subject string, body string) (string, error) {
	out, err := c.sns.PublishWithContext(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return "", err
	}
	return aws.StringValue(out.MessageId), nil
}

func (c *NotificationClient) Healthcheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   "Upload notifications will not reach subscribers",
		Name:             "Check connectivity to SNS topic",
		PanicGuide:       "https://github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier",
		Severity:         1,
		TechnicalSummary: `Cannot read attributes of the configured SNS topic. If this check fails, check that the topic exists and the credentials allow sns:GetTopicAttributes`,
		Checker: func() (string, error) {
			params := &sns.GetTopicAttributesInput{
				TopicArn: aws.String(c.topicArn),
			}
			if _, err := c.sns.GetTopicAttributes(params); err != nil {
				c.log.WithError(err).Error("Got error running SNS health check")
				return "Cannot connect to SNS topic", err
			}
			return "", nil
		},
	}
}

// ValidateTopicARN checks the configured topic identifier before a batch is
// processed: it must carry the SNS ARN prefix and at least six colon-delimited
// segments (arn:aws:sns:<region>:<account>:<name>).
func ValidateTopicARN(topicArn string) error {
	if topicArn == "" {
		return errors.New("SNS_TOPIC_ARN environment variable is required but not set")
	}
	if !strings.HasPrefix(topicArn, topicARNPrefix) || len(strings.Split(topicArn, ":")) < 6 {
		return errors.Errorf("Invalid SNS topic ARN format: %s", topicArn)
	}
	return nil
}

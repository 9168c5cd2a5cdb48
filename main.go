package main

import (
	"net/http"
	"os"

	logger "github.com/Financial-Times/go-logger/v2"
	"github.com/aws/aws-lambda-go/lambda"
	cli "github.com/jawher/mow.cli"
	_ "github.com/joho/godotenv/autoload"

	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/notification"
	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/s3"
	"github.com/FlowMatrix-AI/s3-Bucket-Upload-Notifier/sns"
)

const appDescription = "Publishes a notification to an SNS topic for every file uploaded to S3."

func main() {

	app := cli.App("s3-upload-notifier", appDescription)

	appSystemCode := app.String(cli.StringOpt{
		Name:   "app-system-code",
		Value:  "s3-upload-notifier",
		Desc:   "System Code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})

	appName := app.String(cli.StringOpt{
		Name:   "app-name",
		Value:  "S3 Upload Notifier",
		Desc:   "Application name",
		EnvVar: "APP_NAME",
	})

	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})

	awsRegion := app.String(cli.StringOpt{
		Name:   "awsRegion",
		Value:  "eu-west-1",
		Desc:   "AWS Region to connect to",
		EnvVar: "AWS_REGION",
	})

	snsTopicArn := app.String(cli.StringOpt{
		Name:   "snsTopicArn",
		Value:  "",
		Desc:   "ARN of the SNS topic upload notifications are published to",
		EnvVar: "SNS_TOPIC_ARN",
	})

	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "info",
		Desc:   "Log level of the application (debug, info, warn, error)",
		EnvVar: "LOG_LEVEL",
	})

	app.Action = func() {
		log := logger.NewUPPLogger(*appName, *logLevel)

		s3Client, err := s3.NewClient(*awsRegion, log)
		if err != nil {
			log.WithError(err).Fatal("Error creating S3 client")
		}

		snsClient, err := sns.NewClient(*awsRegion, *snsTopicArn, log)
		if err != nil {
			log.WithError(err).Fatal("Error creating SNS client")
		}

		svc := notification.NewService(s3Client, snsClient, log)
		handler := notification.NewUploadHandler(svc, *snsTopicArn, log)

		// Inside a Lambda runtime the events arrive through the runtime API,
		// everywhere else the same pipeline is served over HTTP.
		if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
			lambda.Start(handler.Handle)
			return
		}

		healthService := notification.NewHealthService(svc, *appSystemCode, *appName, appDescription)
		serveMux := handler.RegisterHandlers(healthService, true)

		log.Infof("Listening on %v", *port)
		if err := http.ListenAndServe(":"+*port, serveMux); err != nil {
			log.WithError(err).Fatal("Unable to start server")
		}
	}

	app.Run(os.Args)
}

package database

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ConnectDynamoDB builds the DynamoDB client for the dynamodb storage driver.
//
// Env vars:
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (default: local)
//   - DYNAMODB_ENDPOINT (optional, e.g. http://localhost:8000 for DynamoDB Local)
func ConnectDynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := NewAWSConfigFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	log.Printf("[storage][dynamodb] client ready region=%s endpoint=%q", cfg.Region, endpoint)
	return client, nil
}

func NewAWSConfigFromEnv(ctx context.Context) (aws.Config, error) {
	// DynamoDB Local ignores credentials but the SDK still signs requests.
	creds := credentials.NewStaticCredentialsProvider(
		GetenvDefault("AWS_ACCESS_KEY_ID", "local"),
		GetenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(GetenvDefault("AWS_REGION", "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
}

func GetenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// NewConfig loads the AWS configuration. With an endpoint set (LocalStack or
// MinIO in development) every client is routed there with static test
// credentials; otherwise the default credential chain is used.
func NewConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	if endpoint != "" {
		slog.Info("routing AWS calls to custom endpoint", "endpoint", endpoint)
		return awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(region),
			awsConfig.WithBaseEndpoint(endpoint),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		)
	}

	return awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
}

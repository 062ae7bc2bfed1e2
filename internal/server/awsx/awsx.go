// Package awsx builds AWS SDK clients from the server configuration.
package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	sc "github.com/dmitrijs2005/guestwifi/internal/server/config"
)

var loadDefaultAWSConfig = config.LoadDefaultConfig

// LoadConfig resolves the shared AWS configuration. Static keys, when both
// are set, take precedence over the default credential chain.
func LoadConfig(ctx context.Context, c *sc.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.AWSRegion)}
	if c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AWSAccessKeyID, c.AWSSecretAccessKey, ""),
		))
	}
	return loadDefaultAWSConfig(ctx, opts...)
}

// NewDynamoDBClient honours an endpoint override such as DynamoDB Local.
func NewDynamoDBClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func NewSSMClient(cfg aws.Config, endpoint string) *ssm.Client {
	return ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

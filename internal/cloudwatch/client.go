package cloudwatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultRegion is used when neither the flags nor the profile name a region.
const DefaultRegion = "ap-northeast-1"

// RoleSessionName identifies cwlogs sessions in CloudTrail.
const RoleSessionName = "cwlogs"

// Credentials describes how to authenticate against AWS.
type Credentials struct {
	Profile   string
	Region    string
	RoleARN   string // Optional role to assume with the profile's credentials
	MFASerial string // Optional MFA device for the role; the code is read from stdin
}

// NewLogsClient creates a new CloudWatch Logs client for creds.
func NewLogsClient(ctx context.Context, creds Credentials) (*cloudwatchlogs.Client, error) {
	cfg, err := LoadConfig(ctx, creds)
	if err != nil {
		return nil, err
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}

// LoadConfig loads the AWS configuration for the profile and region and, when
// a role ARN is given, swaps in assumed-role credentials.
func LoadConfig(ctx context.Context, creds Credentials) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if creds.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(creds.Profile))
	}
	if creds.Region != "" {
		opts = append(opts, config.WithRegion(creds.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if creds.RoleARN != "" {
		cfg.Credentials = aws.NewCredentialsCache(assumeRoleProvider(sts.NewFromConfig(cfg), creds))
	}

	return cfg, nil
}

func assumeRoleProvider(client stscreds.AssumeRoleAPIClient, creds Credentials) *stscreds.AssumeRoleProvider {
	return stscreds.NewAssumeRoleProvider(client, creds.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = RoleSessionName
		if creds.MFASerial != "" {
			o.SerialNumber = aws.String(creds.MFASerial)
			o.TokenProvider = stscreds.StdinTokenProvider
		}
	})
}

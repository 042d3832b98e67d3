package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterGetter is the slice of the SSM client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds a Parameter Store client for the configured region.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets replaces SecretKey with the decrypted value of
// SecretKeySSMParam when that parameter name is set.
func ResolveSecrets(ctx context.Context, cfg *Config, client ParameterGetter) error {
	if cfg.SecretKeySSMParam == "" {
		return nil
	}
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(cfg.SecretKeySSMParam),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get parameter %s: %w", cfg.SecretKeySSMParam, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return fmt.Errorf("parameter %s is empty", cfg.SecretKeySSMParam)
	}
	cfg.SecretKey = aws.ToString(out.Parameter.Value)
	log.Info().Str("parameter", cfg.SecretKeySSMParam).Msg("Loaded secret key from SSM")
	return nil
}

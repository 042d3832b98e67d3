package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DB_TYPE", "SQLite")
	t.Setenv("ACCEPTED_ORIGINS", "http://localhost:3000,https://*.teamforge.dev")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.Storage.PresignTTL)
	assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes())
	assert.Equal(t, []string{"http://localhost:3000", "https://*.teamforge.dev"}, cfg.AcceptedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Config{DBType: "sqlite", DatabaseURL: "x.db", SecretKey: "k", Storage: StorageConfig{Driver: "local"}}
	require.NoError(t, cfg.Validate())

	missingSecret := cfg
	missingSecret.SecretKey = ""
	assert.Error(t, missingSecret.Validate())

	s3NoBucket := cfg
	s3NoBucket.Storage.Driver = "s3"
	assert.Error(t, s3NoBucket.Validate())

	badDB := cfg
	badDB.DBType = "mysql"
	assert.Error(t, badDB.Validate())
}

type fakeSSM struct {
	value string
	err   error
	asked string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.asked = aws.ToString(in.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(f.value)}}, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg := Config{SecretKey: "from-env"}
	client := &fakeSSM{value: "from-ssm"}

	require.NoError(t, ResolveSecrets(context.Background(), &cfg, client))
	assert.Equal(t, "from-env", cfg.SecretKey, "no parameter configured")
	assert.Empty(t, client.asked)

	cfg.SecretKeySSMParam = "/teamforge/secret"
	require.NoError(t, ResolveSecrets(context.Background(), &cfg, client))
	assert.Equal(t, "from-ssm", cfg.SecretKey)
	assert.Equal(t, "/teamforge/secret", client.asked)

	client.err = errors.New("denied")
	assert.Error(t, ResolveSecrets(context.Background(), &cfg, client))
}

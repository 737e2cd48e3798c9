package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/errs"
)

func TestGetters(t *testing.T) {
	env := map[string]string{
		"PORT":    "9000",
		"EMPTY":   "",
		"BAD_INT": "abc",
		"FLAG":    "false",
		"ORIGINS": " https://a.dev , ,https://b.dev",
		"TIMEOUT": " 30 ",
	}

	assert.Equal(t, "9000", GetString(env, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(env, "EMPTY", "fallback"))
	assert.Equal(t, "x", GetString(nil, "PORT", "x"))
	assert.Equal(t, 7, GetInt(env, "BAD_INT", 7))
	assert.Equal(t, 30, GetInt(env, "TIMEOUT", 7))
	assert.False(t, GetBool(env, "FLAG", true))
	assert.True(t, GetBool(env, "MISSING", true))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(env, "ORIGINS"))
}

func TestParseTokenExpiry(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 2 * time.Hour, false},
		{"2h", 2 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"3600", time.Hour, false},
		{"0", 0, true},
		{"xd", 0, true},
		{"soon", 0, true},
		{"-5m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTokenExpiry(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMapDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AcceptedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "https://api.github.com", cfg.Github.APIURL)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Mail.Enabled())
}

func TestFromMapRejectsBadExpiry(t *testing.T) {
	_, err := FromMap(map[string]string{"JWT_EXPIRES_IN": "whenever"})
	assert.True(t, errs.IsConfigError(err))
}

func TestValidate(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"DATABASE_URL": "postgres://localhost/portfolio",
		"JWT_SECRET":   "secret",
	})
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	assert.True(t, errs.IsConfigError(cfg.Validate()))

	cfg.JWTSecret = "secret"
	cfg.DatabaseURL = ""
	assert.True(t, errs.IsConfigError(cfg.Validate()))

	cfg.DatabaseURL = "postgres://localhost/portfolio"
	cfg.BcryptCost = 2
	assert.Error(t, cfg.Validate())
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[f.calls]}
	f.calls++
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestFetchParametersFollowsPages(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/JWT_SECRET"), Value: aws.String("s3cr3t")}},
		{{Name: aws.String("/portfolio/prod/GITHUB_USERNAME"), Value: aws.String("octocat")}},
	}}

	env, err := fetchParameters(context.Background(), client, "/portfolio/prod")
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, map[string]string{
		"JWT_SECRET":      "s3cr3t",
		"GITHUB_USERNAME": "octocat",
	}, env)
}

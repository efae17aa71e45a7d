package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{
		"testbin",
		"-a", ":9090",
		"-d", "postgres://example/streamtube",
		"-s", "flag_access_secret",
		"-k", "flag_refresh_secret",
		"-t", "5",
		"-r", "60",
		"-u", "s3user",
		"-p", "s3pass",
		"-b", "s3bucket",
		"-g", "s3region",
		"-e", "http://s3.example/",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://example/streamtube", cfg.DatabaseDSN)
	assert.Equal(t, "flag_access_secret", cfg.AccessTokenSecret)
	assert.Equal(t, "flag_refresh_secret", cfg.RefreshTokenSecret)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 60*time.Minute, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "s3user", cfg.S3RootUser)
	assert.Equal(t, "s3pass", cfg.S3RootPassword)
	assert.Equal(t, "s3bucket", cfg.S3Bucket)
	assert.Equal(t, "s3region", cfg.S3Region)
	assert.Equal(t, "http://s3.example/", cfg.S3BaseEndpoint)
}

func Test_parseFlags_KeepsDefaultsWithoutFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenValidityDuration)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  server:
    cors: "http://a.test, ,http://b.test"
    http:
      read_timeout_seconds: 5
mfa:
  secret: "QUJD"
  totp:
    issuer: "Acme"
    period: 30
    skew: 1
instrument:
  enabled: false
  trace_sample_ratio: 0.25
  log_mask_fields:
    - password
    - " token "
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.GetString("mfa.totp.issuer"))
	assert.Equal(t, uint(30), cfg.GetUint("mfa.totp.period"))
	assert.Equal(t, 1, cfg.GetInt("mfa.totp.skew"))
	assert.Equal(t, int32(1), cfg.GetInt32("mfa.totp.skew"))
	assert.Equal(t, int64(30), cfg.GetInt64("mfa.totp.period"))
	assert.False(t, cfg.GetBool("instrument.enabled"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("instrument.trace_sample_ratio"), 0.0001)
	assert.Equal(t, 5*time.Second, cfg.GetSecond("app.server.http.read_timeout_seconds"))
	assert.Equal(t, []byte("ABC"), cfg.GetBinary("mfa.secret"))
	assert.Nil(t, cfg.GetBinary("mfa.totp.issuer"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"password", "token"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Empty(t, cfg.GetArray("missing.key"))
	assert.NoError(t, cfg.Close())
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte(sampleYAML))
	assert.Error(t, err)
}

func TestNewViper_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleYAML), 0o600))

	t.Setenv("MFA_TOTP_ISSUER", "FromEnv")

	cfg, err := NewViper(file)
	require.NoError(t, err)

	assert.Equal(t, "FromEnv", cfg.GetString("mfa.totp.issuer"))
	assert.Equal(t, uint(1), cfg.GetUint("mfa.totp.skew"))
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestViper_IsSet(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("mfa:\n  totp:\n    skew: 0\n"))
	require.NoError(t, err)

	assert.True(t, cfg.IsSet("mfa.totp.skew"))
	assert.False(t, cfg.IsSet("mfa.totp.period"))

	t.Setenv("MFA_TOTP_PERIOD", "60")
	assert.True(t, cfg.IsSet("mfa.totp.period"))
	assert.Equal(t, uint(60), cfg.GetUint("mfa.totp.period"))
}

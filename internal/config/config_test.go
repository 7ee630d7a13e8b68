package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "eastus", cfg.Azure.Region)
	assert.Equal(t, "https://api.cognitive.microsofttranslator.com", cfg.Azure.TranslatorEndpoint)
	assert.Equal(t, 10, cfg.Poll.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Poll.Delay)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "azure", cfg.Provider)
	assert.Empty(t, cfg.StorePath)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SCRIPTRAN_AZURE_KEY", "env-key")
	t.Setenv("SCRIPTRAN_AZURE_VISION_ENDPOINT", "https://vision.example")
	t.Setenv("SCRIPTRAN_POLL_MAX_ATTEMPTS", "25")
	t.Setenv("SCRIPTRAN_POLL_DELAY", "250ms")
	t.Setenv("SCRIPTRAN_PROVIDER", " Google ")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Azure.Key)
	assert.Equal(t, "https://vision.example", cfg.Azure.VisionEndpoint)
	assert.Equal(t, 25, cfg.Poll.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Delay)
	assert.Equal(t, "google", cfg.Provider)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scriptran.yaml")
	content := `
azure:
  key: file-key
  region: westeurope
  vision_endpoint: https://file.example
poll:
  max_attempts: 3
  delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Azure.Key)
	assert.Equal(t, "westeurope", cfg.Azure.Region)
	assert.Equal(t, 3, cfg.Poll.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Poll.Delay)
	assert.NoError(t, cfg.ValidateRecognition())
}

func TestReadFile_ExplicitMissing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SCRIPTRAN_AZURE_REGION=northeurope\n"), 0644))
	t.Setenv("SCRIPTRAN_AZURE_REGION", "")
	os.Unsetenv("SCRIPTRAN_AZURE_REGION")

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "northeurope", cfg.Azure.Region)
}

func TestLoadDotEnv_ExplicitMissing(t *testing.T) {
	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestValidateTranslation(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateTranslation(), "azure key missing")

	cfg.Azure.Key = "k"
	assert.NoError(t, cfg.ValidateTranslation())

	cfg.Provider = "google"
	cfg.Azure.Key = ""
	assert.NoError(t, cfg.ValidateTranslation())

	cfg.Provider = "deepl"
	assert.Error(t, cfg.ValidateTranslation())
}

func TestValidateRecognition(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	cfg.Azure.Key = "k"

	assert.Error(t, cfg.ValidateRecognition(), "vision endpoint missing")

	cfg.Azure.VisionEndpoint = "https://vision.example"
	assert.NoError(t, cfg.ValidateRecognition())

	cfg.Poll.MaxAttempts = 0
	assert.Error(t, cfg.ValidateRecognition())
}

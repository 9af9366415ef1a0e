package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lin-Jiong-HDU/aicmd/internal/core/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempHome points the home directory at a fresh temp dir and clears the
// environment variables the config reads.
func useTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, name := range []string{
		"OPENROUTER_API_KEY", "ELEVENLABS_API_KEY",
		"AICMD_AI_API_KEY", "AICMD_VOICE_API_KEY",
		"AICMD_AI_MODEL", "AICMD_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
	return home
}

func TestGetConfigDir(t *testing.T) {
	home := useTempHome(t)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, AppDirName), dir)
}

func TestInitConfig_Defaults(t *testing.T) {
	home := useTempHome(t)

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.AI.Provider)
	assert.Equal(t, "meta-llama/llama-3.3-70b-instruct:free", cfg.AI.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.AI.BaseURL)
	assert.Equal(t, 30, cfg.AI.Timeout)
	assert.Equal(t, "scribe_v1", cfg.Voice.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(home, AppDirName, "logs"), cfg.Log.Dir)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Empty(t, cfg.Security.BlockedCommands)
	assert.Same(t, cfg, GetConfig())
}

func TestInitConfig_Environment(t *testing.T) {
	useTempHome(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("ELEVENLABS_API_KEY", "sk-el-test")
	t.Setenv("AICMD_AI_MODEL", "custom/model")
	t.Setenv("AICMD_LOG_LEVEL", "debug")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk-or-test", cfg.AI.APIKey)
	assert.Equal(t, "sk-el-test", cfg.Voice.APIKey)
	assert.Equal(t, "custom/model", cfg.AI.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	useTempHome(t)

	cfg := &Config{
		AI: AIConfig{
			Provider: "openrouter",
			APIKey:   "saved-key",
			Model:    "saved/model",
			BaseURL:  "https://example.com/v1",
			Timeout:  60,
		},
		Security: security.SecurityPolicy{
			BlockedCommands: []string{"shutdown"},
			BlockedPatterns: []string{`mkfs\.`},
		},
		Log: LogConfig{Level: "warn"},
	}
	require.NoError(t, SaveConfig(cfg))

	configDir, err := GetConfigDir()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(configDir, ConfigFileName+"."+ConfigFileType))
	require.NoError(t, err)

	loaded, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "saved-key", loaded.AI.APIKey)
	assert.Equal(t, "saved/model", loaded.AI.Model)
	assert.Equal(t, 60, loaded.AI.Timeout)
	assert.Equal(t, []string{"shutdown"}, loaded.Security.BlockedCommands)
	assert.Equal(t, []string{`mkfs\.`}, loaded.Security.BlockedPatterns)
	assert.Equal(t, "warn", loaded.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AICMD_DOTENV_TEST=from-file\n"), 0644))
	t.Setenv("AICMD_DOTENV_TEST", "")
	os.Unsetenv("AICMD_DOTENV_TEST")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("AICMD_DOTENV_TEST"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestConfig_Redacted(t *testing.T) {
	cfg := Config{
		AI:    AIConfig{APIKey: "sk-or-v1-abcdef123456"},
		Voice: VoiceConfig{APIKey: "short"},
	}

	redacted := cfg.Redacted()

	assert.Equal(t, "sk-o****", redacted.AI.APIKey)
	assert.Equal(t, "****", redacted.Voice.APIKey)
	assert.Equal(t, "sk-or-v1-abcdef123456", cfg.AI.APIKey)
	assert.Empty(t, Config{}.Redacted().AI.APIKey)
}

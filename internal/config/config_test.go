package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears the variables LoadConfig reads so the host environment
// does not leak into assertions.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"LLM_PROVIDER", "DEEPSEEK_API_KEY", "GROQ_API_KEY", "GITCZ_LOG_LEVEL", "GITCZ_SERVER_PORT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, ProviderDeepSeek, cfg.LLM.Provider)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.False(t, cfg.Prompt.RedactSecrets)

	p := cfg.Provider()
	assert.Equal(t, ProviderDeepSeek, p.Name)
	assert.Equal(t, "https://api.deepseek.com", p.BaseURL)
	assert.Equal(t, "deepseek-chat", p.Model)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "gitcz.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
transport = "sse"
port = 9100

[llm]
provider = "groq"

[llm.groq]
model = "llama-3.1-8b-instant"

[log]
level = "debug"
`), 0644))

	t.Setenv("GROQ_API_KEY", "gsk-from-env")
	t.Setenv("GITCZ_SERVER_PORT", "9200")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, TransportSSE, cfg.Server.Transport)
	assert.Equal(t, 9200, cfg.Server.Port, "env must win over file")
	assert.Equal(t, "debug", cfg.Log.Level)

	p := cfg.Provider()
	assert.Equal(t, ProviderGroq, p.Name)
	assert.Equal(t, "https://api.groq.com/openai/v1", p.BaseURL)
	assert.Equal(t, "llama-3.1-8b-instant", p.Model)
	assert.Equal(t, "gsk-from-env", p.APIKey)
	assert.Equal(t, "GROQ_API_KEY", p.KeyEnv)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	isolateEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config")
}

func TestOverrideKey(t *testing.T) {
	assert.Equal(t, "log.level", overrideKey("GITCZ_LOG_LEVEL"))
	assert.Equal(t, "prompt.redact_secrets", overrideKey("GITCZ_PROMPT_REDACT_SECRETS"))
	assert.Equal(t, "llm.provider", overrideKey("GITCZ_LLM_PROVIDER"))
	assert.Equal(t, "llm.groq.base_url", overrideKey("GITCZ_LLM_GROQ_BASE_URL"))
	assert.Equal(t, "llm.deepseek.model", overrideKey("GITCZ_LLM_DEEPSEEK_MODEL"))
}

func TestProvider_Selection(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     string
		model    string
	}{
		{name: "groq", provider: "groq", want: ProviderGroq, model: "llama3-8b-8192"},
		{name: "groq mixed case", provider: " Groq ", want: ProviderGroq, model: "llama3-8b-8192"},
		{name: "deepseek", provider: "deepseek", want: ProviderDeepSeek, model: "deepseek-chat"},
		{name: "unset", provider: "", want: ProviderDeepSeek, model: "deepseek-chat"},
		{name: "unknown falls back", provider: "openai", want: ProviderDeepSeek, model: "deepseek-chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			if tt.provider != "" {
				t.Setenv("LLM_PROVIDER", tt.provider)
			}

			cfg, err := LoadConfig("")
			require.NoError(t, err)

			p := cfg.Provider()
			assert.Equal(t, tt.want, p.Name)
			assert.Equal(t, tt.model, p.Model)
		})
	}
}

func TestValidate(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")

	cfg.LLM.DeepSeek.APIKey = "sk-test"
	assert.NoError(t, Validate(cfg))

	cfg.Server.Transport = "websocket"
	assert.Error(t, Validate(cfg))

	cfg.Server.Transport = TransportSSE
	cfg.Server.Port = 0
	assert.Error(t, Validate(cfg))
}

func TestInitConfig(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "gitcz.toml")
	require.NoError(t, InitConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderDeepSeek, cfg.LLM.Provider)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Error(t, InitConfig(path), "must refuse to overwrite")
}

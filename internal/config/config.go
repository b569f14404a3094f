package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// ProviderDeepSeek is the default completion provider
	ProviderDeepSeek = "deepseek"
	// ProviderGroq is the alternate completion provider
	ProviderGroq = "groq"

	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Transport string `koanf:"transport"`
		Host      string `koanf:"host"`
		Port      int    `koanf:"port"`
	} `koanf:"server"`

	LLM struct {
		Provider string         `koanf:"provider"`
		DeepSeek ProviderConfig `koanf:"deepseek"`
		Groq     ProviderConfig `koanf:"groq"`
	} `koanf:"llm"`

	Git struct {
		Binary string `koanf:"binary"`
		Dir    string `koanf:"dir"`
	} `koanf:"git"`

	Prompt struct {
		RedactSecrets bool `koanf:"redact_secrets"`
	} `koanf:"prompt"`

	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
}

// ProviderConfig holds the per-provider connection settings
type ProviderConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

// ProviderSettings is the resolved connection for the selected provider
type ProviderSettings struct {
	Name    string
	BaseURL string
	Model   string
	APIKey  string
	KeyEnv  string // environment variable the credential is read from
}

// envKeys maps the well-known environment variables onto config keys.
var envKeys = map[string]string{
	"LLM_PROVIDER":     "llm.provider",
	"DEEPSEEK_API_KEY": "llm.deepseek.api_key",
	"GROQ_API_KEY":     "llm.groq.api_key",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.transport":      TransportStdio,
		"server.host":           "127.0.0.1",
		"server.port":           8000,
		"llm.provider":          ProviderDeepSeek,
		"llm.deepseek.base_url": "https://api.deepseek.com",
		"llm.deepseek.model":    "deepseek-chat",
		"llm.groq.base_url":     "https://api.groq.com/openai/v1",
		"llm.groq.model":        "llama3-8b-8192",
		"git.binary":            "git",
		"git.dir":               "",
		"prompt.redact_secrets": false,
		"log.level":             "info",
		"log.format":            "console",
	}
}

// LoadConfig loads the configuration from defaults, an optional TOML file and
// the environment, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./gitcz.toml", "$HOME/.gitcz.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Well-known provider variables
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	// GITCZ_SECTION_KEY overrides, e.g. GITCZ_LOG_LEVEL
	if err := k.Load(env.Provider("GITCZ_", ".", overrideKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// overrideKey maps GITCZ_LLM_GROQ_BASE_URL to llm.groq.base_url. Only the
// llm section nests one level deeper.
func overrideKey(s string) string {
	key := strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GITCZ_")), "_", ".", 1)
	for _, p := range []string{"llm." + ProviderDeepSeek + "_", "llm." + ProviderGroq + "_"} {
		if strings.HasPrefix(key, p) {
			return p[:len(p)-1] + "." + key[len(p):]
		}
	}
	return key
}

// Provider resolves the selected completion provider. Unrecognized provider
// names fall back to deepseek.
func (c Config) Provider() ProviderSettings {
	if strings.EqualFold(strings.TrimSpace(c.LLM.Provider), ProviderGroq) {
		return ProviderSettings{
			Name:    ProviderGroq,
			BaseURL: c.LLM.Groq.BaseURL,
			Model:   c.LLM.Groq.Model,
			APIKey:  c.LLM.Groq.APIKey,
			KeyEnv:  "GROQ_API_KEY",
		}
	}
	return ProviderSettings{
		Name:    ProviderDeepSeek,
		BaseURL: c.LLM.DeepSeek.BaseURL,
		Model:   c.LLM.DeepSeek.Model,
		APIKey:  c.LLM.DeepSeek.APIKey,
		KeyEnv:  "DEEPSEEK_API_KEY",
	}
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# git-cz commit message server configuration

[server]
transport = "stdio"   # stdio or sse
host = "127.0.0.1"
port = 8000

[llm]
provider = "deepseek" # deepseek or groq

[llm.deepseek]
# api_key is usually taken from DEEPSEEK_API_KEY
base_url = "https://api.deepseek.com"
model = "deepseek-chat"

[llm.groq]
# api_key is usually taken from GROQ_API_KEY
base_url = "https://api.groq.com/openai/v1"
model = "llama3-8b-8192"

[git]
binary = "git"

[prompt]
redact_secrets = false

[log]
level = "info"
format = "console"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	switch config.Server.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("unsupported transport %q (must be stdio or sse)", config.Server.Transport)
	}

	if config.Server.Transport == TransportSSE && (config.Server.Port <= 0 || config.Server.Port > 65535) {
		return fmt.Errorf("invalid port %d", config.Server.Port)
	}

	if config.Git.Binary == "" {
		return fmt.Errorf("git binary is required")
	}

	p := config.Provider()
	if p.BaseURL == "" {
		return fmt.Errorf("%s base_url is required", p.Name)
	}
	if p.Model == "" {
		return fmt.Errorf("%s model is required", p.Name)
	}
	if p.APIKey == "" {
		return fmt.Errorf("%s api key is required (set %s)", p.Name, p.KeyEnv)
	}

	return nil
}

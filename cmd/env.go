package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/gitcz/internal/config"
)

// CredentialCheck holds the result of looking up provider credentials
type CredentialCheck struct {
	Provider string            // Provider the server will use
	Missing  []string          // Required variables that are missing
	Present  map[string]string // Variables that are set (masked values)
}

// CheckCredentials reports which provider keys are available to cfg
func CheckCredentials(cfg *config.Config) *CredentialCheck {
	selected := cfg.Provider()
	result := &CredentialCheck{
		Provider: selected.Name,
		Present:  make(map[string]string),
	}

	keys := map[string]string{
		"DEEPSEEK_API_KEY": cfg.LLM.DeepSeek.APIKey,
		"GROQ_API_KEY":     cfg.LLM.Groq.APIKey,
	}
	for name, val := range keys {
		if val != "" {
			result.Present[name] = maskSecret(val)
		}
	}

	if selected.APIKey == "" {
		result.Missing = append(result.Missing, selected.KeyEnv)
	}
	return result
}

// PrintCredentialCheck prints the credential check results
func PrintCredentialCheck(w io.Writer, result *CredentialCheck) {
	fmt.Fprintf(w, "Provider: %s\n", result.Provider)

	if len(result.Missing) > 0 {
		fmt.Fprintln(w, "Missing required variables:")
		for _, v := range result.Missing {
			fmt.Fprintf(w, "   - %s\n", v)
		}
	}

	if len(result.Present) > 0 {
		names := make([]string, 0, len(result.Present))
		for k := range result.Present {
			names = append(names, k)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "Configured credentials:")
		for _, k := range names {
			fmt.Fprintf(w, "   - %s = %s\n", k, result.Present[k])
		}
	}
}

// maskSecret masks a secret value for display, showing only first and last 2 chars
func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:2] + "****" + value[len(value)-2:]
}

// LoadEnvFile loads KEY=VALUE lines from a dotenv file. Variables already
// present in the environment win. A missing file is not an error.
func LoadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'')) {
			value = value[1 : len(value)-1]
		}

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set env var %s: %w", key, err)
		}
	}

	return scanner.Err()
}

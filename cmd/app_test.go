package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps host configuration out of the CLI under test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	unsetForTest(t, "LLM_PROVIDER", "DEEPSEEK_API_KEY", "GROQ_API_KEY", "GITCZ_LOG_LEVEL", "GITCZ_SERVER_PORT")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp("test")
	app.Writer = &out
	app.ErrWriter = &out

	base := []string{"gitcz", "--env-file", filepath.Join(t.TempDir(), "none.env")}
	err := app.Run(append(base, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitcz.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestConfigValidate_MissingKey(t *testing.T) {
	isolate(t)

	_, err := run(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")

	t.Setenv("DEEPSEEK_API_KEY", "sk-test-key-123")
	out, err := run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "gsk-0123456789-key")

	out, err := run(t, "--transport", "sse", "--port", "9001", "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Transport: sse")
	assert.Contains(t, out, "Listen: 127.0.0.1:9001")
	assert.Contains(t, out, "Provider: groq")
	assert.Contains(t, out, "Base URL: https://api.groq.com/openai/v1")
	assert.Contains(t, out, "GROQ_API_KEY = gs****ey")
	assert.NotContains(t, out, "gsk-0123456789-key")
	assert.NotContains(t, out, "Missing required variables")
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out.toml")

	out, err := run(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}

// completionServer streams deltas in the OpenAI chat completion format
func completionServer(t *testing.T, deltas []string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			content, _ := json.Marshal(d)
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"deepseek-chat\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%s},\"finish_reason\":null}]}\n\n", content)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func gitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	gitRun := func(args ...string) {
		base := []string{"-c", "user.email=dev@example.com", "-c", "user.name=dev", "-c", "commit.gpgsign=false"}
		c := exec.Command("git", append(base, args...)...)
		c.Dir = dir
		out, err := c.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	gitRun("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.go"), []byte("package core\n"), 0644))
	gitRun("add", "core.go")
	gitRun("commit", "-q", "-m", "init")
	return dir
}

func generateConfig(t *testing.T, baseURL, repo string) string {
	return writeConfig(t, fmt.Sprintf(`
[llm.deepseek]
base_url = %q

[git]
dir = %q

[log]
level = "error"
`, baseURL, repo))
}

func TestGenerate_EndToEnd(t *testing.T) {
	isolate(t)
	t.Setenv("DEEPSEEK_API_KEY", "sk-test-key-123")

	repo := gitRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "core.go"), []byte("package core\n\n// added line\n"), 0644))

	var calls int32
	srv := completionServer(t, []string{"feat", "(core): add line"}, &calls)

	out, err := run(t, "--config", generateConfig(t, srv.URL, repo), "generate")
	require.NoError(t, err)
	assert.Equal(t, "feat(core): add line\n", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerate_NoChanges(t *testing.T) {
	isolate(t)
	t.Setenv("DEEPSEEK_API_KEY", "sk-test-key-123")

	repo := gitRepo(t)
	var calls int32
	srv := completionServer(t, []string{"unused"}, &calls)

	out, err := run(t, "--config", generateConfig(t, srv.URL, repo), "generate")
	require.NoError(t, err)
	assert.Equal(t, "feat: No changes detected\n", out)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

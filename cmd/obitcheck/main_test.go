package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	stateDir    string
	keptPath    string
	removedPath string
	inputPath   string
	server      *httptest.Server
}

func setupCLITestEnv(t *testing.T, handler http.Handler) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "config.toml"),
		stateDir:    filepath.Join(base, "state"),
		keptPath:    filepath.Join(base, "kept.csv"),
		removedPath: filepath.Join(base, "removed.csv"),
		inputPath:   filepath.Join(base, "licenses.csv"),
	}

	baseURL := "https://search.invalid/api"
	if handler != nil {
		env.server = httptest.NewServer(handler)
		t.Cleanup(env.server.Close)
		baseURL = env.server.URL
	}

	writeTestConfig(t, env, baseURL)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, baseURL string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[search]
base_url = %q
requests_per_second = 200.0
burst = 10

[retry]
jitter_min_millis = 0
jitter_max_millis = 0

[run]
batch_size = 2
concurrency = 2
batch_pause_seconds = 0

[output]
kept_path = %q
removed_path = %q
`, env.stateDir, filepath.Join(env.baseDir, "logs"), baseURL, env.keptPath, env.removedPath)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeInputCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write input: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

// searchHandler answers every query with a match for Mary Jones and nothing
// for anyone else.
func searchHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("firstName") == "Mary" && r.URL.Query().Get("lastName") == "Jones" {
			fmt.Fprint(w, `{
				"totalRecordCount": 1,
				"searchResults": [
					{
						"id": 101,
						"name": {"firstName": "Mary", "lastName": "Jones"},
						"links": {"obituaryUrl": {"href": "https://example.com/obit/101"}}
					}
				]
			}`)
			return
		}
		fmt.Fprint(w, `{"totalRecordCount": 0, "searchResults": []}`)
	})
}

func TestCLIRunPartitionsInput(t *testing.T) {
	env := setupCLITestEnv(t, searchHandler())
	writeInputCSV(t, env.inputPath, [][]string{
		{"First Name", "Last Name", "Expiration Date"},
		{"Mary", "Jones", "06/30/2025"},
		{"Rosa", "Diaz", "06/30/2025"},
		{"Old", "Timer", "12/31/2020"},
	})

	out, _, err := runCLI(t, []string{"run", env.inputPath}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "completed")

	kept := readCSVFile(t, env.keptPath)
	if len(kept) != 2 || kept[1][0] != "Mary" {
		t.Fatalf("unexpected kept output: %v", kept)
	}
	removed := readCSVFile(t, env.removedPath)
	if len(removed) != 2 || removed[1][0] != "Rosa" {
		t.Fatalf("unexpected removed output: %v", removed)
	}
}

func TestCLIRunRefusesLockedInput(t *testing.T) {
	env := setupCLITestEnv(t, searchHandler())
	writeInputCSV(t, env.inputPath, [][]string{
		{"First Name", "Last Name", "Expiration Date"},
		{"Mary", "Jones", "06/30/2025"},
	})

	// Hold the per-input lock the way a concurrent run would.
	if err := os.MkdirAll(env.stateDir, 0o755); err != nil {
		t.Fatalf("create state dir: %v", err)
	}
	lock := flock.New(filepath.Join(env.stateDir, "licenses.lock"))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer lock.Unlock()

	_, _, err = runCLI(t, []string{"run", env.inputPath}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "already being processed") {
		t.Fatalf("expected lock contention error, got %v", err)
	}

	// The held lock must leave no partial output behind.
	if _, statErr := os.Stat(env.keptPath); !os.IsNotExist(statErr) {
		t.Fatalf("kept output should not exist after refused run: %v", statErr)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("release lock: %v", err)
	}
	if _, _, err := runCLI(t, []string{"run", env.inputPath}, env.configPath); err != nil {
		t.Fatalf("run after lock release: %v", err)
	}
}

func TestCLIRunConflictingFlags(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	_, _, err := runCLI(t, []string{"run", "--append", "--overwrite", env.inputPath}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected flag conflict error, got %v", err)
	}
}

func TestCLIStatusAndCheckpointLifecycle(t *testing.T) {
	env := setupCLITestEnv(t, searchHandler())
	writeInputCSV(t, env.inputPath, [][]string{
		{"First Name", "Last Name", "Expiration Date"},
		{"Mary", "Jones", "06/30/2025"},
	})

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No runs tracked yet")

	if _, _, err := runCLI(t, []string{"run", env.inputPath}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status after run: %v", err)
	}
	requireContains(t, out, "licenses")

	out, _, err = runCLI(t, []string{"checkpoint", "show", env.inputPath}, env.configPath)
	if err != nil {
		t.Fatalf("checkpoint show: %v", err)
	}
	requireContains(t, out, `"completed": true`)

	out, _, err = runCLI(t, []string{"checkpoint", "clear", env.inputPath}, env.configPath)
	if err != nil {
		t.Fatalf("checkpoint clear: %v", err)
	}
	requireContains(t, out, "Cleared checkpoint for licenses")

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status after clear: %v", err)
	}
	requireContains(t, out, "No runs tracked yet")
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

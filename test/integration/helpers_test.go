//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/better-appgen/appgen/internal/deps"
	"github.com/better-appgen/appgen/internal/runtime"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // HOME, so ~/.appgen/config.yaml is sandboxed
	ParentDir string // where the application is generated
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:   t.TempDir(),
		ParentDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// requireToolchain skips the test unless every declared dependency is
// satisfied on this host.
func requireToolchain(t *testing.T, runner runtime.Runner) *deps.Checker {
	t.Helper()

	checker, err := deps.NewChecker(runner)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	if !checker.CheckAll(context.Background(), nil, false) {
		t.Skipf("host toolchain incomplete, missing: %s", strings.Join(checker.Missing(), ", "))
	}
	return checker
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q", filepath.Base(path), substr)
	}
}

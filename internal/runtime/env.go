package runtime

import (
	"os"
	"path/filepath"
	"strings"
)

// sandboxVars are set by Bundler, RubyGems, Python virtualenvs and npm when
// they spawn a child process. They point the child at the tool's own bundled
// dependencies instead of the host installation.
var sandboxVars = []string{
	"BUNDLE_GEMFILE",
	"BUNDLE_BIN_PATH",
	"BUNDLE_LOCKFILE",
	"BUNDLER_VERSION",
	"BUNDLER_SETUP",
	"BUNDLER_ORIG_PATH",
	"RUBYOPT",
	"RUBYLIB",
	"GEM_HOME",
	"GEM_PATH",
	"VIRTUAL_ENV",
	"PYTHONHOME",
	"npm_config_prefix",
	"NODE_PATH",
}

// HostEnv returns a copy of env with sandbox variables removed. PATH entries
// that live inside $VIRTUAL_ENV are dropped as well. If Bundler recorded the
// original PATH in BUNDLER_ORIG_PATH, that value replaces PATH.
func HostEnv(env []string) []string {
	venv := getenv(env, "VIRTUAL_ENV")
	origPath := getenv(env, "BUNDLER_ORIG_PATH")

	out := make([]string, 0, len(env))
	for _, e := range env {
		key, _, _ := strings.Cut(e, "=")
		if isSandboxVar(key) {
			continue
		}
		out = append(out, e)
	}

	path, hadPath := lookupEnv(out, "PATH")
	if origPath != "" {
		path = origPath
	}
	if venv != "" {
		path = stripPathPrefix(path, venv)
	}
	if hadPath || origPath != "" {
		out = setEnv(out, "PATH", path)
	}
	return out
}

func isSandboxVar(key string) bool {
	for _, v := range sandboxVars {
		if key == v {
			return true
		}
	}
	return false
}

// stripPathPrefix removes list entries located under root.
func stripPathPrefix(path, root string) string {
	root = filepath.Clean(root)
	var kept []string
	for _, p := range filepath.SplitList(path) {
		clean := filepath.Clean(p)
		if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, string(os.PathListSeparator))
}

// getenv retrieves a value from an environment list.
func getenv(env []string, key string) string {
	v, _ := lookupEnv(env, key)
	return v
}

func lookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return strings.TrimPrefix(e, prefix), true
		}
	}
	return "", false
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

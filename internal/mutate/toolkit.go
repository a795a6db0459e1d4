package mutate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	goruntime "runtime"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
	execPerm os.FileMode = 0755
)

// Toolkit applies file operations beneath a root directory.
type Toolkit struct {
	root   string
	logger hclog.Logger
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithLogger sets the logger used for per-operation debug output.
func WithLogger(l hclog.Logger) Option {
	return func(t *Toolkit) { t.logger = l }
}

// New returns a Toolkit rooted at root. The directory need not exist yet.
func New(root string, opts ...Option) *Toolkit {
	t := &Toolkit{root: filepath.Clean(root), logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the directory all paths are relative to.
func (t *Toolkit) Root() string { return t.root }

// Path resolves rel against the root. Absolute paths and paths that climb
// out of the root are rejected.
func (t *Toolkit) Path(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q must be relative to %s", rel, t.root)
	}
	full := filepath.Join(t.root, rel)
	r, err := filepath.Rel(t.root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %s", rel, t.root)
	}
	return full, nil
}

// Write creates or overwrites rel with content, creating parent directories.
func (t *Toolkit) Write(rel, content string) error {
	return t.write(rel, content, filePerm)
}

// WriteExecutable is Write followed by marking the file executable.
func (t *Toolkit) WriteExecutable(rel, content string) error {
	if err := t.write(rel, content, execPerm); err != nil {
		return err
	}
	return t.Chmod(rel, execPerm)
}

func (t *Toolkit) write(rel, content string, perm os.FileMode) error {
	full, err := t.Path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", rel, err)
	}
	if err := writeFileAtomic(full, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	t.logger.Debug("wrote file", "path", rel, "bytes", len(content))
	return nil
}

// rewrite replaces the content of an existing file, keeping its mode.
func (t *Toolkit) rewrite(rel, content string) error {
	full, err := t.Path(rel)
	if err != nil {
		return err
	}
	perm := filePerm
	if info, err := os.Stat(full); err == nil {
		perm = info.Mode().Perm()
	}
	if err := writeFileAtomic(full, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// Read returns the content of rel.
func (t *Toolkit) Read(rel string) (string, error) {
	full, err := t.Path(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}
	return string(data), nil
}

// Exists reports whether rel exists (file or directory).
func (t *Toolkit) Exists(rel string) bool {
	full, err := t.Path(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// MkdirAll creates rel and any missing parents.
func (t *Toolkit) MkdirAll(rel string) error {
	full, err := t.Path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", rel, err)
	}
	return nil
}

// Remove deletes rel recursively. A missing path is not an error.
func (t *Toolkit) Remove(rel string) error {
	full, err := t.Path(rel)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(full); err != nil {
		return fmt.Errorf("removing %s: %w", rel, err)
	}
	t.logger.Debug("removed", "path", rel)
	return nil
}

// RemoveGlob deletes every path matching the relative glob pattern.
func (t *Toolkit) RemoveGlob(pattern string) error {
	full, err := t.Path(pattern)
	if err != nil {
		return err
	}
	matches, err := filepath.Glob(full)
	if err != nil {
		return fmt.Errorf("matching %s: %w", pattern, err)
	}
	for _, m := range matches {
		if err := os.RemoveAll(m); err != nil {
			return fmt.Errorf("removing %s: %w", m, err)
		}
		t.logger.Debug("removed", "path", m)
	}
	return nil
}

// Copy duplicates src to dst inside the root, keeping the source mode.
func (t *Toolkit) Copy(src, dst string) error {
	srcFull, err := t.Path(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(srcFull)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	data, err := os.ReadFile(srcFull)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := t.write(dst, string(data), info.Mode().Perm()); err != nil {
		return err
	}
	return t.Chmod(dst, info.Mode().Perm())
}

// Chmod sets permissions on rel. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func (t *Toolkit) Chmod(rel string, mode os.FileMode) error {
	full, err := t.Path(rel)
	if err != nil {
		return err
	}
	if goruntime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(full, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", rel, err)
	}
	return nil
}

// AppendIfAbsent appends content to rel unless it already contains it. A
// missing file is created.
func (t *Toolkit) AppendIfAbsent(rel, content string) (bool, error) {
	current, err := t.readOrEmpty(rel)
	if err != nil {
		return false, err
	}
	if strings.Contains(current, content) {
		return false, nil
	}
	if err := t.write(rel, current+content, t.modeOr(rel, filePerm)); err != nil {
		return false, err
	}
	return true, nil
}

// InsertBefore splices content in front of the first match of pattern.
// It does nothing, and reports false, when content is already present in
// the file or pattern does not match.
func (t *Toolkit) InsertBefore(rel string, pattern *regexp.Regexp, content string) (bool, error) {
	return t.insert(rel, pattern, content, true)
}

// InsertAfter splices content right after the first match of pattern, with
// the same skip rules as InsertBefore.
func (t *Toolkit) InsertAfter(rel string, pattern *regexp.Regexp, content string) (bool, error) {
	return t.insert(rel, pattern, content, false)
}

func (t *Toolkit) insert(rel string, pattern *regexp.Regexp, content string, before bool) (bool, error) {
	current, err := t.Read(rel)
	if err != nil {
		return false, err
	}
	if strings.Contains(current, content) {
		t.logger.Debug("insert skipped, content present", "path", rel)
		return false, nil
	}
	loc := pattern.FindStringIndex(current)
	if loc == nil {
		t.logger.Debug("insert skipped, anchor not found", "path", rel, "pattern", pattern.String())
		return false, nil
	}
	at := loc[1]
	if before {
		at = loc[0]
	}
	if err := t.rewrite(rel, current[:at]+content+current[at:]); err != nil {
		return false, err
	}
	t.logger.Debug("inserted content", "path", rel, "pattern", pattern.String(), "before", before)
	return true, nil
}

// RegexReplace replaces every match of pattern in rel. Replacement supports
// $1-style expansion. Reports whether the file changed.
func (t *Toolkit) RegexReplace(rel string, pattern *regexp.Regexp, replacement string) (bool, error) {
	current, err := t.Read(rel)
	if err != nil {
		return false, err
	}
	updated := pattern.ReplaceAllString(current, replacement)
	if updated == current {
		return false, nil
	}
	if err := t.rewrite(rel, updated); err != nil {
		return false, err
	}
	t.logger.Debug("replaced content", "path", rel, "pattern", pattern.String())
	return true, nil
}

func (t *Toolkit) readOrEmpty(rel string) (string, error) {
	content, err := t.Read(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return content, nil
}

func (t *Toolkit) modeOr(rel string, def os.FileMode) os.FileMode {
	full, err := t.Path(rel)
	if err != nil {
		return def
	}
	if info, err := os.Stat(full); err == nil {
		return info.Mode().Perm()
	}
	return def
}

package apperr

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	err := New(ConfigurationError, "bad name")
	assert.Equal(t, ConfigurationError, CodeOf(err))

	wrapped := fmt.Errorf("building config: %w", err)
	assert.Equal(t, ConfigurationError, CodeOf(wrapped))

	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestErrorsIsSentinel(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Newf(TemplateMissing, "Template file not found: %s", "x.tmpl"))
	assert.True(t, errors.Is(err, Sentinel(TemplateMissing)))
	assert.False(t, errors.Is(err, Sentinel(ManifestMergeFailed)))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ExternalCommandFailed, "Command 'rails new' failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Command 'rails new' failed: exit status 1", err.Error())
}

func TestWithDetailsCopies(t *testing.T) {
	details := map[string]string{"missing": "node"}
	err := WithDetails(DependencyUnsatisfied, "missing deps", details)
	details["missing"] = "changed"

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "node", e.Details["missing"])

	empty := WithDetails(Internal, "x", map[string]string{})
	e, _ = As(empty)
	assert.Nil(t, e.Details)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(New(ConfigurationError, "x")))
	assert.Equal(t, 1, ExitCode(errors.New("x")))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, WithDetails(DependencyUnsatisfied, "Missing required dependencies", map[string]string{
		"missing": "node, yarn",
		"hint":    "install them",
	}))
	assert.Equal(t, "Error: Missing required dependencies\n  hint: install them\n  missing: node, yarn\n", buf.String())

	buf.Reset()
	Print(&buf, nil)
	assert.Empty(t, buf.String())
}

package mutate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/better-appgen/appgen/internal/apperr"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/package.schema.json
var packageSchemaBytes []byte

var (
	packageSchema     *jsonschema.Schema
	packageSchemaOnce sync.Once
	packageSchemaErr  error
	printer           = message.NewPrinter(language.English)
)

// PackageManifest is the input to MergeStructuredManifest. Name seeds the
// skeleton written when no manifest exists yet.
type PackageManifest struct {
	Name            string
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         map[string]string
	Extra           map[string]any
}

// getPackageSchema compiles the embedded JSON schema once.
func getPackageSchema() (*jsonschema.Schema, error) {
	packageSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(packageSchemaBytes))
		if err != nil {
			packageSchemaErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("package.schema.json", doc); err != nil {
			packageSchemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		packageSchema, packageSchemaErr = c.Compile("package.schema.json")
		if packageSchemaErr != nil {
			packageSchemaErr = fmt.Errorf("compiling schema: %w", packageSchemaErr)
		}
	})
	return packageSchema, packageSchemaErr
}

// MergeStructuredManifest merges m into the package.json at rel. The four
// maps are merged key by key with the new value winning; keys not mentioned
// are kept. A manifest that is not valid JSON, or whose dependency or script
// sections are not string maps, fails with MANIFEST_MERGE_FAILED and is left
// untouched. Output is two-space indented with sorted keys.
func (t *Toolkit) MergeStructuredManifest(rel string, m PackageManifest) error {
	doc, err := t.loadPackageDocument(rel, m.Name)
	if err != nil {
		return err
	}

	mergeStringMap(doc, "dependencies", m.Dependencies)
	mergeStringMap(doc, "devDependencies", m.DevDependencies)
	mergeStringMap(doc, "scripts", m.Scripts)
	for k, v := range m.Extra {
		doc[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", rel, err)
	}
	if err := t.write(rel, buf.String(), t.modeOr(rel, filePerm)); err != nil {
		return err
	}
	t.logger.Debug("merged package manifest", "path", rel,
		"dependencies", len(m.Dependencies), "dev_dependencies", len(m.DevDependencies), "scripts", len(m.Scripts))
	return nil
}

// loadPackageDocument reads and validates rel, or returns a fresh skeleton
// when it does not exist.
func (t *Toolkit) loadPackageDocument(rel, name string) (map[string]any, error) {
	full, err := t.Path(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{"name": name, "private": true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	// jsonschema.UnmarshalJSON keeps numbers as json.Number so they are
	// written back exactly as read.
	raw, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.ManifestMergeFailed, fmt.Sprintf("Cannot parse %s", rel), err)
	}

	schema, err := getPackageSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, apperr.New(apperr.ManifestMergeFailed,
			fmt.Sprintf("Cannot merge %s: %s", rel, describeValidation(err)))
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, apperr.Newf(apperr.ManifestMergeFailed, "Cannot merge %s: top level is not an object", rel)
	}
	return doc, nil
}

func mergeStringMap(doc map[string]any, key string, values map[string]string) {
	section, _ := doc[key].(map[string]any)
	if section == nil {
		section = make(map[string]any, len(values))
	}
	for k, v := range values {
		section[k] = v
	}
	doc[key] = section
}

// describeValidation flattens a schema validation error into one line of
// "location: message" leaf issues.
func describeValidation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var issues []string
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return ve.Error()
	}
	return strings.Join(issues, "; ")
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		*issues = append(*issues, loc+": "+msg)
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}

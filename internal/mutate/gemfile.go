package mutate

import (
	"fmt"
	"strings"
)

// gemfileAnchor is the section new gems are inserted in front of.
const gemfileAnchor = "group :development do"

// manifestEntry is one line of a line-oriented package manifest. Name is the
// declared package, or "" for lines that declare nothing (blank lines, group
// headers, source lines). A commented-out declaration still carries its
// Name, with Commented set.
type manifestEntry struct {
	Name      string
	Raw       string
	Commented bool
}

// lineManifest is a parsed Gemfile.
type lineManifest struct {
	entries []manifestEntry
}

func parseLineManifest(content string) *lineManifest {
	lines := strings.SplitAfter(content, "\n")
	m := &lineManifest{entries: make([]manifestEntry, 0, len(lines))}
	for _, raw := range lines {
		if raw == "" {
			continue
		}
		e := manifestEntry{Raw: raw}
		if name, ok := parseDeclaration(raw); ok {
			e.Name = name
		} else if name, ok := parseDeclaration(uncomment(raw)); ok {
			e.Name, e.Commented = name, true
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// declares reports whether any line mentions name, commented out or not. A
// commented declaration means the gem was deliberately left out, so it is
// not added back.
func (m *lineManifest) declares(name string) bool {
	for _, e := range m.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// anchor returns the index of the first anchor line, or -1.
func (m *lineManifest) anchor() int {
	for i, e := range m.entries {
		if strings.TrimSpace(e.Raw) == gemfileAnchor {
			return i
		}
	}
	return -1
}

// insertAt places line in front of entry i.
func (m *lineManifest) insertAt(i int, line string) {
	name, _ := parseDeclaration(line)
	e := manifestEntry{Name: name, Raw: line + "\n"}
	m.entries = append(m.entries[:i], append([]manifestEntry{e}, m.entries[i:]...)...)
}

func (m *lineManifest) String() string {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(e.Raw)
	}
	return b.String()
}

func uncomment(line string) string {
	s := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(s, "#") {
		return ""
	}
	return strings.TrimLeft(s, "# \t")
}

// parseDeclaration extracts the package name from a `gem "name"` line. Both
// quote styles, optional parentheses and leading indentation are accepted;
// anything after the closing quote (versions, options, comments) is ignored.
func parseDeclaration(line string) (string, bool) {
	s := strings.TrimLeft(line, " \t")
	rest, ok := strings.CutPrefix(s, "gem")
	if !ok || rest == "" {
		return "", false
	}
	if rest[0] != ' ' && rest[0] != '\t' && rest[0] != '(' {
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t(")
	if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		return "", false
	}
	quote := rest[0]
	end := strings.IndexByte(rest[1:], quote)
	if end <= 0 {
		return "", false
	}
	return rest[1 : end+1], true
}

// MergeManifestList adds each gem line in entries to the Gemfile at rel
// unless a gem of the same name is already declared. New lines go in front
// of the `group :development do` section when present, otherwise at the end
// of the file. The file is re-read after every insertion so later entries
// see earlier ones. Returns the names that were added.
func (t *Toolkit) MergeManifestList(rel string, entries []string) ([]string, error) {
	var added []string
	for _, entry := range entries {
		line := strings.TrimRight(entry, "\r\n")
		name, ok := parseDeclaration(line)
		if !ok {
			return added, fmt.Errorf("merging %s: no package declaration in %q", rel, entry)
		}

		current, err := t.Read(rel)
		if err != nil {
			return added, err
		}
		m := parseLineManifest(current)
		if m.declares(name) {
			t.logger.Debug("gem already declared", "path", rel, "gem", name)
			continue
		}

		if i := m.anchor(); i >= 0 {
			m.insertAt(i, line)
			if err := t.rewrite(rel, m.String()); err != nil {
				return added, err
			}
		} else if _, err := t.AppendIfAbsent(rel, "\n"+line+"\n"); err != nil {
			return added, err
		}
		t.logger.Debug("added gem", "path", rel, "gem", name)
		added = append(added, name)
	}
	return added, nil
}

package deps

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`(?i)v?(\d+\.\d+(?:\.\d+)?)`)

// ExtractVersion returns the first dotted version in output, without any
// leading "v". Returns "" when none is found.
func ExtractVersion(output string) string {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return m[1]
}

// Satisfies reports whether current is at least required. An empty required
// means no constraint. An empty current satisfies only an empty required.
// Missing trailing components count as 0, so "3.3" satisfies "3.2.0".
func Satisfies(current, required string) bool {
	if required == "" {
		return true
	}
	if current == "" {
		return false
	}

	cv, cerr := semver.NewVersion(current)
	rv, rerr := semver.NewVersion(required)
	if cerr == nil && rerr == nil {
		return !cv.LessThan(rv)
	}
	return componentsSatisfy(current, required)
}

// componentsSatisfy compares dotted integer components left to right over
// the length of required. Used for strings semver cannot parse, such as
// four-part versions.
func componentsSatisfy(current, required string) bool {
	cur := splitComponents(current)
	req := splitComponents(required)

	for i, r := range req {
		c := 0
		if i < len(cur) {
			c = cur[i]
		}
		if c > r {
			return true
		}
		if c < r {
			return false
		}
	}
	return true
}

func splitComponents(v string) []int {
	parts := strings.Split(strings.TrimPrefix(v, "v"), ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(leadingDigits(p))
		if err == nil {
			out[i] = n
		}
	}
	return out
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

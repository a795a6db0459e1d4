// Package config holds the validated, immutable Configuration for a single
// "appgen new" invocation and the user-level defaults stored at
// ~/.appgen/config.yaml (ports, locale, feature flags, log level) that seed
// the command's flags.
package config

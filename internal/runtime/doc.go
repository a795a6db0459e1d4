// Package runtime runs external commands the way the user's own shell would.
// HostRunner strips the variables a bundled language runtime injects into its
// children (Bundler, RubyGems, virtualenv, npm prefixes) so that dependency
// probes and the project-creation command see system-wide installations
// rather than whatever environment appgen itself was launched from.
package runtime

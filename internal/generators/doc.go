// Package generators holds the ordered steps that turn an empty directory
// into a configured Rails application. Each Generator mutates the target
// through a shared Env; a Pipeline runs them in order and skips stages whose
// condition is false for the current configuration.
package generators

// Package apperr defines the coded error taxonomy used across appgen. Each
// error carries a stable Code, a user-facing message, an optional cause for
// errors.Is/As, and optional structured details (such as the list of missing
// dependencies) that the CLI prints alongside the message.
package apperr

// Package scaffold renders the text templates that generators write into a
// new application. Templates are embedded in the binary under templates/ and
// addressed by slash-separated names without the .tmpl suffix, for example
// "vite/vite.config.js".
package scaffold

// Package api contains the HTTP handlers for the paper CRUD and text
// extraction endpoints. Every response, success or error, uses the same
// JSON envelope (code, status, message, data); errors are mapped to
// status codes and safe messages in errors.go so internal details never
// reach clients.
package api

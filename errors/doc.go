// Package errors provides the unified error type used across entityhttp.
//
// Every failure raised before any I/O (bad configuration, bad auth strategy,
// bad factory arguments) is an *AppError carrying a machine-readable code, so
// callers can branch on the code instead of matching message text.
package errors

// Package logger provides structured logging for entityhttp using zerolog.
//
// Loggers are component-scoped: the HTTP core logs through
// logger.Get("httpclient") unless a client is given its own logger.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
package logger

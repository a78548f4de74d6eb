// Package logger provides structured logging for beatoken.
//
// It is a thin layer over log/slog:
//
//   - logger.go: Logger interface, construction and the process-wide level
//   - context.go: logger and command/request id propagation through context
//   - redact.go: masking of bea_ envelopes and secret-bearing fields
//
// Token envelopes must never reach a log line in full. Handlers built by New
// mask any bea_ value automatically; code that wants to correlate a token
// across lines logs Fingerprint(token) under the "token_fp" key instead.
package logger

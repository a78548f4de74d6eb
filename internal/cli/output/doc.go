// Package output renders command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: rounded tables (go-pretty) with coloured status cells
//   - text.go, json.go, yaml.go: the other formats
//   - views.go: the result types commands render
//   - errors.go: the "Error: [CODE] message" line
//
// Token envelopes are only ever written to the command's output writer,
// never to the logger.
package output

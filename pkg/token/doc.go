// Package token holds the small cryptographic helpers shared by the CLI and
// the logger: random signing secrets and SHA-256 digests of token strings.
//
// Nothing here knows the bea_ envelope format; see internal/core/codec.
package token

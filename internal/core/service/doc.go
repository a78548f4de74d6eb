// Package service couples the codecs and the record store into the token
// lifecycle: issuance, validation, inspection and revocation. It also
// implements the deployment orchestrator that mints deployment tokens.
//
// Services never keep package-level state. The host constructs a store,
// a signer and a kind registry and passes them in explicitly.
package service

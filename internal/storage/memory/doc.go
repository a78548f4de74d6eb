// Package memory provides the in-memory stores backing beatoken.
//
// Store is the authority of record for issued tokens. It keeps the record
// map and its agent, user and environment indexes under a single mutex so
// that insert, lookup, revocation and listing are linearizable against each
// other. Nothing is persisted: the contents live as long as the process.
//
// DeploymentStore holds deployments in a sharded map (pkg/cmap).
package memory

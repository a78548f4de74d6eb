// Package domain defines the core domain models for beatoken.
//
// Domain models are plain values without IO dependencies:
//
//   - Record: metadata of an issued token, immutable after issuance
//   - Kind / KindRegistry: token categories and their envelope tags
//   - Environment: deployment environment names and hostnames
//   - Deployment: an agent rolled out to an environment
//   - Errors: coded domain errors
package domain

// Package metric provides Prometheus metrics for beatoken.
//
// Each Registry owns a private prometheus.Registry so that independent
// pipelines (and tests) never share counters. A nil *Registry is valid and
// records nothing.
//
// Exported series:
//
//   - beatoken_tokens_issued_total{kind}
//   - beatoken_validations_total{result}
//   - beatoken_tokens_revoked_total
//   - beatoken_tokens_live
//   - beatoken_deployments_total{provider}
package metric

package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/beabot/beatoken/internal/core/codec"
	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/core/service"
	"github.com/beabot/beatoken/internal/storage/memory"
	"github.com/beabot/beatoken/internal/telemetry/logger"
	"github.com/beabot/beatoken/internal/telemetry/metric"
	"github.com/beabot/beatoken/pkg/token"
)

// StoreSizes defines the live token counts for benchmarking.
var StoreSizes = []int{1000, 10000, 100000}

// SmallStoreSizes for quick benchmarks.
var SmallStoreSizes = []int{1000, 10000}

var kinds = []domain.Kind{domain.KindBearer, domain.KindAPI, domain.KindDeployment, domain.KindSession}

// newService creates a token service over a fresh memory store.
func newService(b *testing.B) (*service.TokenService, *memory.Store) {
	b.Helper()
	secret, err := token.GenerateSecret(token.SecretLength)
	if err != nil {
		b.Fatalf("GenerateSecret: %v", err)
	}
	signer, err := codec.NewHMACSigner(secret)
	if err != nil {
		b.Fatalf("NewHMACSigner: %v", err)
	}

	store := memory.New()
	svc, err := service.NewTokenService(store, service.TokenServiceConfig{
		Signer:  signer,
		Logger:  logger.Nop(),
		Metrics: metric.NewRegistry(),
	})
	if err != nil {
		b.Fatalf("NewTokenService: %v", err)
	}
	return svc, store
}

// issueRequest returns the i-th request of a mixed workload.
func issueRequest(i int) *service.IssueTokenRequest {
	lifetime := 24 * time.Hour
	return &service.IssueTokenRequest{
		Kind:        kinds[i%len(kinds)],
		Environment: []string{"production", "staging", "development"}[i%3],
		Lifetime:    &lifetime,
		AgentID:     fmt.Sprintf("agent-%d", i%100),
		UserID:      fmt.Sprintf("user-%d", i%1000),
	}
}

// prefill issues count tokens and returns their envelopes.
func prefill(b *testing.B, svc *service.TokenService, count int) []string {
	b.Helper()
	ctx := context.Background()
	tokens := make([]string, count)
	for i := range tokens {
		resp, err := svc.Issue(ctx, issueRequest(i))
		if err != nil {
			b.Fatalf("Issue: %v", err)
		}
		tokens[i] = resp.Token
	}
	return tokens
}

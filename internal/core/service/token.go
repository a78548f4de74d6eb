package service

import (
	"context"
	"errors"
	"time"

	"github.com/beabot/beatoken/internal/core/codec"
	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/telemetry/logger"
	"github.com/beabot/beatoken/internal/telemetry/metric"
)

// TokenRepository is the record store the token service depends on.
//
// Implementations must make every operation atomic with respect to every
// other and must never hand out references to stored records.
type TokenRepository interface {
	// Insert stores a record under its id.
	Insert(ctx context.Context, rec *domain.Record) error

	// Get returns the record with id, or ErrTokenNotFound.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// Remove deletes and returns the record with id, or ErrTokenNotFound.
	Remove(ctx context.Context, id string) (*domain.Record, error)

	ListByAgent(ctx context.Context, agentID string) ([]*domain.Record, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Record, error)

	// ListByEnvironment matches on the normalized environment name.
	ListByEnvironment(ctx context.Context, env string) ([]*domain.Record, error)

	// All returns every live record in issuance order.
	All(ctx context.Context) ([]*domain.Record, error)
}

// TokenServiceConfig wires a TokenService.
type TokenServiceConfig struct {
	// Signer signs and verifies claim blobs. Required.
	Signer codec.Signer

	// Issuer is written to the iss claim. Empty means codec.DefaultIssuer.
	Issuer string

	// Kinds resolves kind names and envelope tags. Nil means the built-in kinds.
	Kinds *domain.KindRegistry

	Logger  logger.Logger
	Metrics *metric.Registry

	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

// TokenService issues and validates bea_ tokens.
type TokenService struct {
	repo     TokenRepository
	signer   codec.Signer
	claims   *codec.ClaimsCodec
	envelope *codec.EnvelopeCodec
	kinds    *domain.KindRegistry
	logger   logger.Logger
	metrics  *metric.Registry
	clock    func() time.Time
}

// NewTokenService creates a token service over repo.
func NewTokenService(repo TokenRepository, cfg TokenServiceConfig) (*TokenService, error) {
	if repo == nil {
		return nil, domain.ErrInvalidConfig.WithDetails("token repository is required")
	}
	if cfg.Signer == nil {
		return nil, domain.ErrInvalidConfig.WithDetails("signer is required")
	}

	kinds := cfg.Kinds
	if kinds == nil {
		kinds = domain.NewKindRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &TokenService{
		repo:     repo,
		signer:   cfg.Signer,
		claims:   codec.NewClaimsCodec(cfg.Issuer, kinds),
		envelope: codec.NewEnvelopeCodec(kinds),
		kinds:    kinds,
		logger:   log.With("component", "token_service"),
		metrics:  cfg.Metrics,
		clock:    clock,
	}, nil
}

// Kinds returns the kind registry the service resolves tags with.
func (s *TokenService) Kinds() *domain.KindRegistry {
	return s.kinds
}

// IssueTokenRequest contains the parameters of a new token.
type IssueTokenRequest struct {
	Kind        domain.Kind // Required
	Environment string      // Required, free-form

	// Lifetime is relative to issuance. Nil never expires; a negative
	// lifetime yields a token that is already expired.
	Lifetime *time.Duration

	AgentID  string            // Optional
	UserID   string            // Optional
	Metadata map[string]string // Optional, opaque
}

// IssueTokenResponse is the result of Issue.
type IssueTokenResponse struct {
	// Token is the envelope. It is returned exactly once and never stored.
	Token  string
	Record *domain.Record
}

// Issue mints a token.
//
// The record is in the store before Issue returns, so any validator that
// learns the envelope afterwards observes it. Apart from invalid input, Issue
// fails only with ErrSigningFailed or ErrIDExhausted, and never leaves a
// record behind when it does.
func (s *TokenService) Issue(ctx context.Context, req *IssueTokenRequest) (*IssueTokenResponse, error) {
	if req == nil {
		return nil, domain.ErrTokenValidation.WithDetails("request is required")
	}
	if !s.kinds.Known(req.Kind) {
		return nil, domain.ErrUnknownKind.WithDetails(string(req.Kind))
	}

	id, err := domain.GenerateTokenID()
	if err != nil {
		return nil, err
	}

	// Whole seconds, so the record and the signed claims agree exactly.
	now := s.clock().UTC().Truncate(time.Second)
	rec := &domain.Record{
		ID:          id,
		Kind:        req.Kind,
		Environment: req.Environment,
		CreatedAt:   now,
		AgentID:     req.AgentID,
		UserID:      req.UserID,
	}
	if req.Lifetime != nil {
		exp := expiryAfter(now, *req.Lifetime)
		rec.ExpiresAt = &exp
	}
	if len(req.Metadata) > 0 {
		rec.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			rec.Metadata[k] = v
		}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	blob, err := s.signer.Sign(s.claims.Encode(rec))
	if err != nil {
		s.logger.WithContext(ctx).Error("token signing failed", "token_id", id, "error", err)
		return nil, err
	}
	token, err := s.envelope.Encode(rec.Kind, blob)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	s.metrics.Issued(string(rec.Kind))
	s.logger.WithContext(ctx).Debug("token issued",
		"token_id", rec.ID,
		"kind", string(rec.Kind),
		"environment", rec.Environment,
		"token_fp", logger.Fingerprint(token),
	)

	return &IssueTokenResponse{Token: token, Record: rec.Clone()}, nil
}

// Validate checks a presented envelope and returns the stored record.
//
// Checks run in a fixed order and the first failure is returned:
// envelope syntax, signature, claims shape, envelope/claims kind agreement,
// store presence, claims expiry, record expiry. Validate never mutates the
// store.
func (s *TokenService) Validate(ctx context.Context, token string) (*domain.Record, error) {
	rec, err := s.validate(ctx, token)
	s.metrics.Validated(resultLabel(err))
	return rec, err
}

func (s *TokenService) validate(ctx context.Context, token string) (*domain.Record, error) {
	claimed, err := s.open(ctx, token)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Get(ctx, claimed.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if claimed.IsExpired(now) {
		return nil, domain.ErrTokenExpired.WithDetails("claims expired at " + claimed.ExpiresAt.Format(time.RFC3339))
	}
	if stored.IsExpired(now) {
		return nil, domain.ErrTokenExpired.WithDetails("record expired at " + stored.ExpiresAt.Format(time.RFC3339))
	}

	return stored, nil
}

// Inspect verifies the signature of an envelope and returns the record its
// claims describe, without consulting the store. A token that inspects
// cleanly may still be revoked or expired.
func (s *TokenService) Inspect(ctx context.Context, token string) (*domain.Record, error) {
	return s.open(ctx, token)
}

// open runs the stateless half of validation.
func (s *TokenService) open(ctx context.Context, token string) (*domain.Record, error) {
	env, err := s.envelope.Decode(token)
	if err != nil {
		return nil, err
	}

	raw, err := s.signer.Verify(env.Blob)
	if err != nil {
		s.securityEvent(ctx, "security.signature_invalid", token, "kind", string(env.Kind))
		return nil, err
	}

	claimed, err := s.claims.Decode(raw)
	if err != nil {
		return nil, err
	}

	if claimed.Kind != env.Kind {
		s.securityEvent(ctx, "security.kind_mismatch", token,
			"envelope_kind", string(env.Kind),
			"claims_kind", string(claimed.Kind),
			"token_id", claimed.ID,
		)
		return nil, domain.ErrKindMismatch.WithDetails(
			"envelope " + string(env.Kind) + ", claims " + string(claimed.Kind))
	}

	return claimed, nil
}

func (s *TokenService) securityEvent(ctx context.Context, event, token string, args ...any) {
	args = append([]any{"event", event, "token_fp", logger.Fingerprint(token)}, args...)
	s.logger.WithContext(ctx).Warn("token rejected", args...)
}

// Revoke deletes the record with id. Any envelope referencing it fails
// validation with ErrTokenNotFound from then on.
func (s *TokenService) Revoke(ctx context.Context, id string) (*domain.Record, error) {
	rec, err := s.repo.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.Revoked()
	s.logger.WithContext(ctx).Info("token revoked", "token_id", id, "kind", string(rec.Kind))
	return rec, nil
}

// RevokeByAgent revokes every live token associated with agentID and
// returns how many were removed. Tokens revoked concurrently by someone
// else are skipped.
func (s *TokenService) RevokeByAgent(ctx context.Context, agentID string) (int, error) {
	recs, err := s.repo.ListByAgent(ctx, agentID)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, rec := range recs {
		if _, err := s.Revoke(ctx, rec.ID); err != nil {
			if errors.Is(err, domain.ErrTokenNotFound) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}

// ListByAgent returns the live tokens associated with agentID.
func (s *TokenService) ListByAgent(ctx context.Context, agentID string) ([]*domain.Record, error) {
	return s.repo.ListByAgent(ctx, agentID)
}

// ListByUser returns the live tokens associated with userID.
func (s *TokenService) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByEnvironment returns the live tokens in env, matched by normalized name.
func (s *TokenService) ListByEnvironment(ctx context.Context, env string) ([]*domain.Record, error) {
	return s.repo.ListByEnvironment(ctx, env)
}

// ListAll returns every live token, oldest first.
func (s *TokenService) ListAll(ctx context.Context) ([]*domain.Record, error) {
	return s.repo.All(ctx)
}

// expiryAfter returns now+d rounded up to a whole second. Non-positive
// lifetimes give now, a token that is expired on issue.
func expiryAfter(now time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return now
	}
	exp := now.Add(d)
	if t := exp.Truncate(time.Second); t.Before(exp) {
		return t.Add(time.Second)
	}
	return exp
}

func resultLabel(err error) string {
	if err == nil {
		return metric.ResultOK
	}
	if code := domain.GetErrorCode(err); code != "" {
		return code
	}
	return domain.ErrInternal.Code
}

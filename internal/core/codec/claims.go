package codec

import (
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/beabot/beatoken/internal/core/domain"
)

// DefaultIssuer is the iss claim written when none is configured.
const DefaultIssuer = "bea-bot"

// Claim names.
const (
	ClaimSubject     = "sub"
	ClaimIssuer      = "iss"
	ClaimIssuedAt    = "iat"
	ClaimExpiresAt   = "exp"
	ClaimType        = "type"
	ClaimEnvironment = "env"
	ClaimAgentID     = "aid"
	ClaimUserID      = "uid"
	ClaimMetadata    = "meta"
)

// wireClaims is the decoded shape of a claim set. Pointers distinguish
// absent claims from zero values.
type wireClaims struct {
	Subject     *string           `claim:"sub"`
	Issuer      *string           `claim:"iss"`
	IssuedAt    *int64            `claim:"iat"`
	ExpiresAt   *int64            `claim:"exp"`
	Type        *string           `claim:"type"`
	Environment *string           `claim:"env"`
	AgentID     *string           `claim:"aid"`
	UserID      *string           `claim:"uid"`
	Metadata    map[string]string `claim:"meta"`
}

// ClaimsCodec maps records to flat claim sets and back.
type ClaimsCodec struct {
	issuer string
	kinds  *domain.KindRegistry
}

// NewClaimsCodec creates a claims codec. An empty issuer means DefaultIssuer.
func NewClaimsCodec(issuer string, kinds *domain.KindRegistry) *ClaimsCodec {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &ClaimsCodec{issuer: issuer, kinds: kinds}
}

// Issuer returns the iss value written by Encode.
func (c *ClaimsCodec) Issuer() string {
	return c.issuer
}

// Encode returns the claim set for r. Timestamps are whole seconds; an empty
// metadata map is omitted.
func (c *ClaimsCodec) Encode(r *domain.Record) jwt.MapClaims {
	claims := jwt.MapClaims{
		ClaimSubject:     r.ID,
		ClaimIssuer:      c.issuer,
		ClaimIssuedAt:    r.CreatedAt.Unix(),
		ClaimType:        string(r.Kind),
		ClaimEnvironment: r.Environment,
	}
	if r.ExpiresAt != nil {
		claims[ClaimExpiresAt] = r.ExpiresAt.Unix()
	}
	if r.AgentID != "" {
		claims[ClaimAgentID] = r.AgentID
	}
	if r.UserID != "" {
		claims[ClaimUserID] = r.UserID
	}
	if len(r.Metadata) > 0 {
		meta := make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = v
		}
		claims[ClaimMetadata] = meta
	}
	return claims
}

// Decode maps a claim set back to a record fragment.
func (c *ClaimsCodec) Decode(claims jwt.MapClaims) (*domain.Record, error) {
	var w wireClaims
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "claim",
		Result:  &w,
	})
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}
	if err := dec.Decode(map[string]any(claims)); err != nil {
		return nil, domain.ErrMalformedClaims.WithCause(err)
	}

	var missing []string
	if w.Subject == nil || *w.Subject == "" {
		missing = append(missing, ClaimSubject)
	}
	if w.Issuer == nil || *w.Issuer == "" {
		missing = append(missing, ClaimIssuer)
	}
	if w.IssuedAt == nil {
		missing = append(missing, ClaimIssuedAt)
	}
	if w.Type == nil || *w.Type == "" {
		missing = append(missing, ClaimType)
	}
	if w.Environment == nil || *w.Environment == "" {
		missing = append(missing, ClaimEnvironment)
	}
	if len(missing) > 0 {
		return nil, domain.ErrMalformedClaims.WithDetails("missing " + strings.Join(missing, ", "))
	}

	kind := domain.Kind(*w.Type)
	if !c.kinds.Known(kind) {
		return nil, domain.ErrMalformedClaims.WithDetails("unrecognized type " + *w.Type)
	}

	r := &domain.Record{
		ID:          *w.Subject,
		Kind:        kind,
		Environment: *w.Environment,
		CreatedAt:   time.Unix(*w.IssuedAt, 0).UTC(),
	}
	if w.ExpiresAt != nil {
		exp := time.Unix(*w.ExpiresAt, 0).UTC()
		r.ExpiresAt = &exp
	}
	if w.AgentID != nil {
		r.AgentID = *w.AgentID
	}
	if w.UserID != nil {
		r.UserID = *w.UserID
	}
	if len(w.Metadata) > 0 {
		r.Metadata = w.Metadata
	}
	return r, nil
}

package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/beabot/beatoken/internal/core/domain"
)

func testRecord() *domain.Record {
	exp := time.Unix(1_700_003_600, 0).UTC()
	return &domain.Record{
		ID:          "tok_01hqv1234567890abcdefghjkm",
		Kind:        domain.KindAPI,
		Environment: "staging",
		CreatedAt:   time.Unix(1_700_000_000, 0).UTC(),
		ExpiresAt:   &exp,
		AgentID:     "agent-x",
		UserID:      "user-1",
		Metadata:    map[string]string{"scope": "deploy:write"},
	}
}

func TestClaimsCodec_Encode(t *testing.T) {
	c := NewClaimsCodec("", domain.NewKindRegistry())
	claims := c.Encode(testRecord())

	want := jwt.MapClaims{
		"sub":  "tok_01hqv1234567890abcdefghjkm",
		"iss":  DefaultIssuer,
		"iat":  int64(1_700_000_000),
		"exp":  int64(1_700_003_600),
		"type": "api",
		"env":  "staging",
		"aid":  "agent-x",
		"uid":  "user-1",
		"meta": map[string]string{"scope": "deploy:write"},
	}
	if diff := cmp.Diff(want, claims); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestClaimsCodec_EncodeOmitsOptional(t *testing.T) {
	c := NewClaimsCodec("issuer-x", domain.NewKindRegistry())
	r := testRecord()
	r.ExpiresAt = nil
	r.AgentID = ""
	r.UserID = ""
	r.Metadata = map[string]string{}

	claims := c.Encode(r)
	for _, key := range []string{ClaimExpiresAt, ClaimAgentID, ClaimUserID, ClaimMetadata} {
		if _, ok := claims[key]; ok {
			t.Errorf("claim %q should be omitted", key)
		}
	}
	if claims[ClaimIssuer] != "issuer-x" {
		t.Errorf("iss = %v, want issuer-x", claims[ClaimIssuer])
	}
}

func TestClaimsCodec_RoundTrip(t *testing.T) {
	c := NewClaimsCodec("", domain.NewKindRegistry())
	want := testRecord()

	got, err := c.Decode(c.Encode(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// Claims that went through JSON carry float64 numbers and map[string]any.
func TestClaimsCodec_RoundTripThroughSigner(t *testing.T) {
	c := NewClaimsCodec("", domain.NewKindRegistry())
	s := newTestSigner(t, testSecret)
	want := testRecord()

	blob, err := s.Sign(c.Encode(want))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := s.Verify(blob)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	got, err := c.Decode(claims)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClaimsCodec_DecodeMinimal(t *testing.T) {
	c := NewClaimsCodec("", domain.NewKindRegistry())

	got, err := c.Decode(jwt.MapClaims{
		"sub":  "tok_x",
		"iss":  "bea-bot",
		"iat":  float64(1_700_000_000),
		"type": "bearer",
		"env":  "production",
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ExpiresAt != nil || got.Metadata != nil || got.AgentID != "" || got.UserID != "" {
		t.Errorf("optional fields should be empty: %+v", got)
	}
}

func TestClaimsCodec_DecodeMalformed(t *testing.T) {
	c := NewClaimsCodec("", domain.NewKindRegistry())

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub":  "tok_x",
			"iss":  "bea-bot",
			"iat":  float64(1_700_000_000),
			"type": "bearer",
			"env":  "production",
		}
	}

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"missing sub", func(m jwt.MapClaims) { delete(m, "sub") }},
		{"empty sub", func(m jwt.MapClaims) { m["sub"] = "" }},
		{"missing iss", func(m jwt.MapClaims) { delete(m, "iss") }},
		{"missing iat", func(m jwt.MapClaims) { delete(m, "iat") }},
		{"missing type", func(m jwt.MapClaims) { delete(m, "type") }},
		{"missing env", func(m jwt.MapClaims) { delete(m, "env") }},
		{"numeric sub", func(m jwt.MapClaims) { m["sub"] = float64(42) }},
		{"string iat", func(m jwt.MapClaims) { m["iat"] = "yesterday" }},
		{"string exp", func(m jwt.MapClaims) { m["exp"] = "tomorrow" }},
		{"numeric env", func(m jwt.MapClaims) { m["env"] = true }},
		{"numeric aid", func(m jwt.MapClaims) { m["aid"] = float64(7) }},
		{"meta not a map", func(m jwt.MapClaims) { m["meta"] = "scope=read" }},
		{"meta non-string value", func(m jwt.MapClaims) { m["meta"] = map[string]any{"n": float64(1)} }},
		{"unknown type", func(m jwt.MapClaims) { m["type"] = "refresh" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			if _, err := c.Decode(m); !errors.Is(err, domain.ErrMalformedClaims) {
				t.Errorf("Decode() = %v, want ErrMalformedClaims", err)
			}
		})
	}
}

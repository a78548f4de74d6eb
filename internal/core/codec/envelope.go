package codec

import (
	"strings"

	"github.com/beabot/beatoken/internal/core/domain"
)

// Envelope format: bea_<tag>_<blob>.
const (
	EnvelopePrefix    = "bea"
	EnvelopeSeparator = "_"
)

// Envelope is a parsed token string.
type Envelope struct {
	Kind domain.Kind
	Tag  byte
	Blob string
}

// EnvelopeCodec frames signed blobs as bea_ token strings.
type EnvelopeCodec struct {
	kinds *domain.KindRegistry
}

// NewEnvelopeCodec creates an envelope codec resolving tags through kinds.
func NewEnvelopeCodec(kinds *domain.KindRegistry) *EnvelopeCodec {
	return &EnvelopeCodec{kinds: kinds}
}

// Encode builds the token string for kind and blob.
func (c *EnvelopeCodec) Encode(kind domain.Kind, blob string) (string, error) {
	tag, ok := c.kinds.Tag(kind)
	if !ok {
		return "", domain.ErrUnknownKind.WithDetails(string(kind))
	}
	if blob == "" {
		return "", domain.ErrInvalidEnvelope.WithDetails("empty blob")
	}
	return EnvelopePrefix + EnvelopeSeparator + string(tag) + EnvelopeSeparator + blob, nil
}

// Decode parses a token string.
//
// Only the first two separators are significant; everything after the second
// one is returned verbatim as the blob, separators included.
func (c *EnvelopeCodec) Decode(s string) (Envelope, error) {
	if !strings.HasPrefix(s, EnvelopePrefix+EnvelopeSeparator) {
		return Envelope{}, domain.ErrInvalidEnvelope.WithDetails("missing bea_ prefix")
	}

	parts := strings.SplitN(s, EnvelopeSeparator, 3)
	if len(parts) < 3 {
		return Envelope{}, domain.ErrInvalidEnvelope.WithDetails("expected 3 segments")
	}

	tag, blob := parts[1], parts[2]
	if tag == "" {
		return Envelope{}, domain.ErrInvalidEnvelope.WithDetails("empty kind segment")
	}
	if blob == "" {
		return Envelope{}, domain.ErrInvalidEnvelope.WithDetails("empty blob")
	}
	if len(tag) != 1 {
		return Envelope{}, domain.ErrUnknownKind.WithDetails("kind tag " + tag)
	}

	kind, ok := c.kinds.Lookup(tag[0])
	if !ok {
		return Envelope{}, domain.ErrUnknownKind.WithDetails("kind tag " + tag)
	}

	return Envelope{Kind: kind, Tag: tag[0], Blob: blob}, nil
}

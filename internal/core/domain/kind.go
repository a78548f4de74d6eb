package domain

import (
	"sort"
	"strings"
	"sync"
)

// Kind is the category of a token. It controls the envelope tag and the
// "type" claim.
type Kind string

// Built-in kinds.
const (
	KindBearer     Kind = "bearer"
	KindAPI        Kind = "api"
	KindDeployment Kind = "deployment"
	KindSession    Kind = "session"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// KindRegistry maps kinds to their single-character envelope tags.
//
// A registry starts with the four built-in kinds. Custom kinds may claim any
// unused tag from [a-z0-9]. Registration is expected at startup; lookups are
// safe for concurrent use afterwards.
type KindRegistry struct {
	mu     sync.RWMutex
	byKind map[Kind]byte
	byTag  map[byte]Kind
}

// NewKindRegistry returns a registry holding the built-in kinds.
func NewKindRegistry() *KindRegistry {
	r := &KindRegistry{
		byKind: make(map[Kind]byte, 4),
		byTag:  make(map[byte]Kind, 4),
	}
	r.byKind[KindBearer], r.byTag['b'] = 'b', KindBearer
	r.byKind[KindAPI], r.byTag['a'] = 'a', KindAPI
	r.byKind[KindDeployment], r.byTag['d'] = 'd', KindDeployment
	r.byKind[KindSession], r.byTag['s'] = 's', KindSession
	return r
}

// Register adds a custom kind with the given tag.
func (r *KindRegistry) Register(kind Kind, tag byte) error {
	if !validKindName(string(kind)) {
		return ErrKindInvalid.WithDetails("kind name must match [a-z][a-z0-9-]*: " + string(kind))
	}
	if !validTag(tag) {
		return ErrKindInvalid.WithDetails("tag must be one of [a-z0-9]: " + string(tag))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byKind[kind]; ok {
		return ErrKindConflict.WithDetails("kind " + string(kind))
	}
	if _, ok := r.byTag[tag]; ok {
		return ErrKindConflict.WithDetails("tag " + string(tag))
	}
	r.byKind[kind] = tag
	r.byTag[tag] = kind
	return nil
}

// Tag returns the envelope tag for kind.
func (r *KindRegistry) Tag(kind Kind) (byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.byKind[kind]
	return tag, ok
}

// Lookup returns the kind registered under tag.
func (r *KindRegistry) Lookup(tag byte) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.byTag[tag]
	return kind, ok
}

// Known reports whether kind is registered.
func (r *KindRegistry) Known(kind Kind) bool {
	_, ok := r.Tag(kind)
	return ok
}

// Parse resolves a user-supplied kind name, case-insensitively.
func (r *KindRegistry) Parse(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !r.Known(kind) {
		return "", ErrUnknownKind.WithDetails(name)
	}
	return kind, nil
}

// Kinds returns the registered kinds sorted by name.
func (r *KindRegistry) Kinds() []Kind {
	r.mu.RLock()
	kinds := make([]Kind, 0, len(r.byKind))
	for k := range r.byKind {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func validTag(tag byte) bool {
	return (tag >= 'a' && tag <= 'z') || (tag >= '0' && tag <= '9')
}

func validKindName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !validTag(c) && c != '-' {
			return false
		}
	}
	return true
}

package entry

import (
	"encoding/json"
	"fmt"
)

// MutationKind is the closed set of changes a store can record.
type MutationKind string

const (
	KindCreate  MutationKind = "create"
	KindDestroy MutationKind = "destroy"
)

// Valid reports whether k is one of the known kinds.
func (k MutationKind) Valid() bool {
	return k == KindCreate || k == KindDestroy
}

// ParseMutationKind converts a stored or user supplied string into a kind.
func ParseMutationKind(s string) (MutationKind, error) {
	k := MutationKind(s)
	if !k.Valid() {
		return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown mutation kind %q", s)}
	}
	return k, nil
}

// Mutation records one successful create or destroy of an entry.
type Mutation struct {
	Kind  MutationKind `json:"kind" yaml:"kind"`
	Entry Entry        `json:"entry" yaml:"entry"`
}

// NewMutation builds a validated Mutation.
func NewMutation(kind MutationKind, e Entry) (Mutation, error) {
	if !kind.Valid() {
		return Mutation{}, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown mutation kind %q", string(kind))}
	}
	if err := e.Validate(); err != nil {
		return Mutation{}, err
	}
	return Mutation{Kind: kind, Entry: e}, nil
}

// UnmarshalJSON rejects unknown kinds; the nested entry validates itself.
func (m *Mutation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind  string `json:"kind"`
		Entry Entry  `json:"entry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParseMutationKind(raw.Kind)
	if err != nil {
		return err
	}
	*m = Mutation{Kind: kind, Entry: raw.Entry}
	return nil
}

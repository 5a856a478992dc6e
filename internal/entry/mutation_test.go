package entry

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewMutation(t *testing.T) {
	e := Entry{Start: at(9, 0), End: at(10, 0), Category: "Work"}

	tests := []struct {
		name    string
		kind    MutationKind
		entry   Entry
		wantErr bool
	}{
		{"create", KindCreate, e, false},
		{"destroy", KindDestroy, e, false},
		{"unknown kind", MutationKind("update"), e, true},
		{"empty kind", MutationKind(""), e, true},
		{"invalid entry", KindCreate, Entry{Start: at(10, 0), End: at(9, 0), Category: "Work"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMutation(tt.kind, tt.entry)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMutation() returned unexpected error: %v", err)
			}
			if m.Kind != tt.kind || !m.Entry.Equal(tt.entry) {
				t.Errorf("NewMutation() = %+v", m)
			}
		})
	}
}

func TestParseMutationKind(t *testing.T) {
	if k, err := ParseMutationKind("create"); err != nil || k != KindCreate {
		t.Errorf("ParseMutationKind(create) = %q, %v", k, err)
	}
	if k, err := ParseMutationKind("destroy"); err != nil || k != KindDestroy {
		t.Errorf("ParseMutationKind(destroy) = %q, %v", k, err)
	}
	if _, err := ParseMutationKind("CREATE"); err == nil {
		t.Error("expected kinds to be case sensitive")
	}
}

func TestMutation_UnmarshalJSON(t *testing.T) {
	valid := `{"kind":"create","entry":{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}}`
	var m Mutation
	if err := json.Unmarshal([]byte(valid), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Kind != KindCreate || m.Entry.Category != "Work" {
		t.Errorf("decoded = %+v", m)
	}

	invalid := `{"kind":"rename","entry":{"start_time":"2024-01-15T09:00:00Z","end_time":"2024-01-15T10:00:00Z","category":"Work"}}`
	if err := json.Unmarshal([]byte(invalid), &m); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for unknown kind, got %v", err)
	}
}

package infra

import (
	"strings"
	"testing"
)

func TestRandomNames_NewName(t *testing.T) {
	names := NewRandomNames()

	for i := 0; i < 50; i++ {
		name, err := names.NewName()
		if err != nil {
			t.Fatalf("NewName failed: %v", err)
		}
		parts := strings.Split(name, " ")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			t.Fatalf("expected \"First Last\", got %q", name)
		}
	}
}

func TestRandomNames_Empty(t *testing.T) {
	names := &RandomNames{}
	if _, err := names.NewName(); err == nil {
		t.Error("empty name lists should return error")
	}
}

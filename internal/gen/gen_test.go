package gen

import (
	"context"
	"errors"
	"testing"
)

func TestVerdictFromText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"CORRECT", true},
		{"correct", true},
		{"Correct! Well done.", true},
		{"That's CORRECT!", true},
		{"Close! But not quite.", false},
		{"Nope, try again.", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := VerdictFromText(tt.text); got != tt.want {
			t.Errorf("VerdictFromText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDisabledAlwaysUnavailable(t *testing.T) {
	ctx := context.Background()
	g := Disabled()

	if _, err := g.PuzzleWord(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("PuzzleWord err = %v", err)
	}
	if _, err := g.Secret(ctx, "food"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Secret err = %v", err)
	}
	if _, err := g.Answer(ctx, "food", "Pizza", "Is it hot?"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Answer err = %v", err)
	}
	if _, _, err := g.Verdict(ctx, "Pizza", "Sushi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Verdict err = %v", err)
	}
}

package requestid

import (
	"context"
	"testing"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"no id", context.Background(), ""},
		{"stored id", With(context.Background(), "req-42"), "req-42"},
		{"innermost wins", With(With(context.Background(), "outer"), "inner"), "inner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := From(tt.ctx); got != tt.expected {
				t.Errorf("From() = %q, want %q", got, tt.expected)
			}
		})
	}
}

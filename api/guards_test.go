package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"TodoPlans/db"
)

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"6f1c6e2e-3b1c-4c8e-9d9a-2f0b3c4d5e6f", true},
		{"6F1C6E2E-3B1C-4C8E-9D9A-2F0B3C4D5E6F", true},
		{"00000000-0000-0000-0000-000000000000", true},
		{"6f1c6e2e3b1c4c8e9d9a2f0b3c4d5e6f", false},
		{"{6f1c6e2e-3b1c-4c8e-9d9a-2f0b3c4d5e6f}", false},
		{"6f1c6e2e-3b1c-7c8e-9d9a-2f0b3c4d5e6f", false},
		{"6f1c6e2e-3b1c-4c8e-cd9a-2f0b3c4d5e6f", false},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validID(tt.id), tt.id)
	}
}

func TestCheckQuota(t *testing.T) {
	full := make([]db.Todo, db.FreeTodoLimit)

	assert.NoError(t, checkQuota(db.User{Todos: full[:1]}))
	assert.Equal(t, db.KindForbidden, db.KindOf(checkQuota(db.User{Todos: full})))
	assert.NoError(t, checkQuota(db.User{Pro: true, Todos: full}))
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-01-01T10:30", time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-01-01T10:30:15", time.Date(2025, 1, 1, 10, 30, 15, 0, time.UTC)},
		{"2025-01-01T10:30:15.250Z", time.Date(2025, 1, 1, 10, 30, 15, 250_000_000, time.UTC)},
		{"2025-01-01T12:00:00+02:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDeadline(tt.in)
		if assert.NoError(t, err, tt.in) {
			assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
		}
	}

	for _, bad := range []string{"", "tomorrow", "2025-13-01", "01/02/2025"} {
		_, err := parseDeadline(bad)
		assert.Equal(t, db.KindBadRequest, db.KindOf(err), bad)
	}
}

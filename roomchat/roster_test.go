package roomchat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoster(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []OnlineUser
	}{
		{
			name:    "bare list of objects",
			payload: `[{"username":"bob","is_mod":true},{"username":"carol"}]`,
			want:    []OnlineUser{{Username: "bob", IsMod: true}, {Username: "carol"}},
		},
		{
			name:    "wrapped object",
			payload: `{"room_name":"Chat Room 1","users":[{"username":"bob"}],"count":1}`,
			want:    []OnlineUser{{Username: "bob"}},
		},
		{
			name:    "plain username strings",
			payload: `["bob"]`,
			want:    []OnlineUser{{Username: "bob"}},
		},
		{
			name:    "null",
			payload: `null`,
			want:    []OnlineUser{},
		},
		{
			name:    "empty list",
			payload: `[]`,
			want:    []OnlineUser{},
		},
		{
			name:    "object without users field",
			payload: `{"count":3}`,
			want:    []OnlineUser{},
		},
		{
			name:    "scalar garbage",
			payload: `42`,
			want:    []OnlineUser{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeRoster(json.RawMessage(tt.payload), noopLogger{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrappedAndBareShapesAreEquivalent(t *testing.T) {
	wrapped := normalizeRoster(json.RawMessage(`{"users":[{"username":"bob"}]}`), noopLogger{})
	bare := normalizeRoster(json.RawMessage(`["bob"]`), noopLogger{})
	assert.Equal(t, wrapped, bare)
}

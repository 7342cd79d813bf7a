package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHistoryUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantLen int
	}{
		{
			name:    "Valid array",
			payload: `[{"description":"En Tramite","changedAt":"2024-01-01"}]`,
			wantLen: 1,
		},
		{
			name:    "Empty array",
			payload: `[]`,
			wantLen: 0,
		},
		{
			name:    "Null becomes empty",
			payload: `null`,
			wantLen: 0,
		},
		{
			name:    "Object instead of array",
			payload: `{"description":"En Tramite"}`,
			wantLen: 0,
		},
		{
			name:    "String instead of array",
			payload: `"sin historial"`,
			wantLen: 0,
		},
		{
			name:    "Number instead of array",
			payload: `42`,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h StatusHistory
			err := json.Unmarshal([]byte(tt.payload), &h)

			// Nunca propaga el error: degrada a historial vacío.
			require.NoError(t, err)
			assert.Len(t, h, tt.wantLen)
		})
	}
}

func TestStatusHistoryInsideEnvelope(t *testing.T) {
	var wrapper struct {
		History StatusHistory `json:"history"`
	}

	err := json.Unmarshal([]byte(`{"history":"corrupta"}`), &wrapper)
	require.NoError(t, err)
	assert.Empty(t, wrapper.History)

	err = json.Unmarshal([]byte(`{"history":[{"description":"Entregado"}]}`), &wrapper)
	require.NoError(t, err)
	require.Len(t, wrapper.History, 1)
	assert.Equal(t, "Entregado", wrapper.History[0].Description)
}

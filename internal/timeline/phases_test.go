package timeline

import (
	"testing"

	"recipe-status-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAlwaysReturnsCanonicalPhases(t *testing.T) {
	tests := []struct {
		name    string
		records []model.StatusRecord
	}{
		{
			name:    "Empty input",
			records: []model.StatusRecord{},
		},
		{
			name:    "Nil input",
			records: nil,
		},
		{
			name: "Only unknown phase names",
			records: []model.StatusRecord{
				{Description: "En Revisión"},
				{Description: "garbage"},
			},
		},
		{
			name: "Partial history",
			records: []model.StatusRecord{
				{Description: "Entregado", ChangedDate: "2024-01-05"},
			},
		},
		{
			name: "More records than phases",
			records: []model.StatusRecord{
				{Description: "Pendiente"},
				{Description: "En Tramite"},
				{Description: "Procesado"},
				{Description: "Entregado"},
				{Description: "Entregado"},
				{Description: "otro"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := Normalize(tt.records)

			require.Len(t, phases, len(CanonicalPhases))
			for i, name := range CanonicalPhases {
				assert.Equal(t, name, phases[i].Description)
				assert.NotNil(t, phases[i].Medications)
			}
		})
	}
}

func TestNormalizePartialHistory(t *testing.T) {
	phases := Normalize([]model.StatusRecord{
		{Description: "Entregado", ChangedDate: "2024-01-05"},
	})

	require.Len(t, phases, 4)

	for _, ph := range phases[:3] {
		assert.False(t, ph.Completed, ph.Description)
		assert.Empty(t, ph.ChangedDate)
		assert.Empty(t, ph.Medications)
		assert.Equal(t, PhaseColor(ph.Description, false), ph.Color)
	}

	delivered := phases[3]
	assert.True(t, delivered.Completed)
	assert.Equal(t, "2024-01-05", delivered.ChangedDate)
	assert.Equal(t, PhaseColor(PhaseDelivered, true), delivered.Color)
}

func TestNormalizeCaseSensitiveMatch(t *testing.T) {
	// "entregado" en minúscula no es la fase canónica "Entregado".
	phases := Normalize([]model.StatusRecord{
		{Description: "entregado", ChangedDate: "2024-01-05"},
	})

	for _, ph := range phases {
		assert.False(t, ph.Completed)
	}
}

func TestNormalizeDuplicatePhaseLastWriteWins(t *testing.T) {
	phases := Normalize([]model.StatusRecord{
		{Description: "Procesado", ChangedDate: "2024-01-02", ChangedTime: "09:00:00"},
		{Description: "Procesado", ChangedDate: "2024-01-03", ChangedTime: "16:45:00"},
	})

	processed := phases[2]
	require.True(t, processed.Completed)
	assert.Equal(t, "2024-01-03", processed.ChangedDate)
	assert.Equal(t, "16:45:00", processed.ChangedTime)
}

func TestNormalizeKeepsMedicationsPerPhase(t *testing.T) {
	meds := []model.Medication{
		{ID: 1, CommercialName: "Amoxicilina 500mg", Quantity: 2},
	}
	phases := Normalize([]model.StatusRecord{
		{Description: "En Tramite", ChangedDate: "2024-01-01", Medications: meds},
	})

	assert.Equal(t, meds, phases[1].Medications)
	assert.Empty(t, phases[2].Medications)
}

func TestNormalizeDimsPendingColors(t *testing.T) {
	phases := Normalize(nil)
	for _, ph := range phases {
		assert.Contains(t, ph.Color, dimAlpha)
	}
}

func TestCurrentMedications(t *testing.T) {
	medsA := []model.Medication{{ID: 1, CommercialName: "Ibuprofeno", Quantity: 1}}
	medsB := []model.Medication{{ID: 2, CommercialName: "Losartán", Quantity: 3}}

	tests := []struct {
		name    string
		records []model.StatusRecord
		want    []model.Medication
	}{
		{
			name:    "No records",
			records: nil,
			want:    []model.Medication{},
		},
		{
			name: "No record with medications",
			records: []model.StatusRecord{
				{Description: "Pendiente"},
				{Description: "En Tramite"},
			},
			want: []model.Medication{},
		},
		{
			name: "Last record with medications wins",
			records: []model.StatusRecord{
				{Description: "En Tramite", Medications: medsA},
				{Description: "Procesado", Medications: medsB},
			},
			want: medsB,
		},
		{
			name: "Skips trailing record without medications",
			records: []model.StatusRecord{
				{Description: "En Tramite", Medications: medsA},
				{Description: "Entregado"},
			},
			want: medsA,
		},
		{
			name: "Skips record without description",
			records: []model.StatusRecord{
				{Description: "En Tramite", Medications: medsA},
				{Description: "", Medications: medsB},
			},
			want: medsA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentMedications(tt.records))
		})
	}
}

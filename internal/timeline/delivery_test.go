package timeline

import (
	"testing"
	"time"

	"recipe-status-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInstant(t *testing.T, date, clock string) time.Time {
	t.Helper()
	inst, ok := CombineInstant(date, clock)
	require.True(t, ok)
	return inst
}

func TestCombineInstant(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		clock  string
		wantOK bool
	}{
		{"ISO date with seconds", "2024-01-01", "08:00:00", true},
		{"ISO date without seconds", "2024-01-01", "08:30", true},
		{"DD/MM/YYYY date", "05/01/2024", "10:15:00", true},
		{"Missing date", "", "08:00:00", false},
		{"Missing time", "2024-01-01", "", false},
		{"Unparseable date", "no es fecha", "08:00:00", false},
		{"Unparseable time", "2024-01-01", "mediodía", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, ok := CombineInstant(tt.date, tt.clock)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.False(t, inst.IsZero())
			}
		})
	}

	inst := mustInstant(t, "2024-01-01", "08:30:45")
	assert.Equal(t, time.Date(2024, 1, 1, 8, 30, 45, 0, time.UTC), inst)
}

func TestDurationUnits(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		diff time.Duration
		want string
	}{
		{"Days and hours", 26*time.Hour + 30*time.Minute, "1d 2h"},
		{"Exactly one day", 24 * time.Hour, "1d 0h"},
		{"Hours and minutes", 3*time.Hour + 15*time.Minute, "3h 15m"},
		{"Minutes and seconds", 5*time.Minute + 42*time.Second, "5m 42s"},
		{"Seconds only", 12 * time.Second, "12s"},
		{"Zero", 0, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(base, base.Add(tt.diff)))
		})
	}
}

func TestDurationSymmetry(t *testing.T) {
	a := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, Duration(a, b), Duration(b, a))
}

func TestDurationZeroEndpoint(t *testing.T) {
	now := time.Now()
	assert.Equal(t, NotAvailable, Duration(time.Time{}, now))
	assert.Equal(t, NotAvailable, Duration(now, time.Time{}))
}

// La magnitud mostrada nunca retrocede al alejarse el segundo instante.
func TestDurationMonotonicUnits(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rank := func(s string) int {
		switch {
		case len(s) > 1 && s[len(s)-1] == 'h':
			return 3
		case len(s) > 1 && s[len(s)-1] == 'm':
			return 2
		default:
			return 1
		}
	}

	prev := 0
	for _, d := range []time.Duration{
		10 * time.Second,
		59 * time.Second,
		time.Minute,
		59 * time.Minute,
		time.Hour,
		23 * time.Hour,
		24 * time.Hour,
		400 * 24 * time.Hour,
	} {
		got := rank(Duration(start, start.Add(d)))
		assert.GreaterOrEqual(t, got, prev, "unit shrank at %s", d)
		prev = got
	}
}

func TestComputeDeliveryTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 11, 15, 0, 0, time.UTC)

	tests := []struct {
		name  string
		order model.RecipeOrder
		want  string
	}{
		{
			name: "Delivered order uses frozen interval",
			order: model.RecipeOrder{
				Status:        "Entregado",
				SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
				DeliveredDate: "2024-01-02", DeliveredTime: "10:30:00",
			},
			want: "1d 2h",
		},
		{
			name: "Cancelled short-circuits even with full timestamps",
			order: model.RecipeOrder{
				Status:        "Cancelado",
				SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
				DeliveredDate: "2024-01-02", DeliveredTime: "10:30:00",
			},
			want: NotAvailable,
		},
		{
			name: "Cancelled is case-insensitive",
			order: model.RecipeOrder{
				Status:        "CANCELADO",
				SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
			},
			want: NotAvailable,
		},
		{
			name: "In-process order measures against now",
			order: model.RecipeOrder{
				Status:        "En Proceso",
				SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
			},
			want: "3h 15m",
		},
		{
			name: "Unknown status falls through to live interval",
			order: model.RecipeOrder{
				Status:        "En Auditoría",
				SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
			},
			want: "3h 15m",
		},
		{
			name: "Missing submitted pair",
			order: model.RecipeOrder{
				Status:        "En Tramite",
				SubmittedDate: "2024-01-01",
			},
			want: NotAvailable,
		},
		{
			name: "Delivered status without delivered pair",
			order: model.RecipeOrder{
				Status:        "Entregado",
				SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
			},
			want: NotAvailable,
		},
		{
			name: "Unparseable submitted date",
			order: model.RecipeOrder{
				Status:        "En Tramite",
				SubmittedDate: "???", SubmittedTime: "08:00:00",
			},
			want: NotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDeliveryTime(tt.order, now))
		})
	}
}

// Con now inyectado, la misma orden en vuelo da el mismo valor en cada
// llamada; entregada, el valor no depende de now.
func TestComputeDeliveryTimeDeterminism(t *testing.T) {
	order := model.RecipeOrder{
		Status:        "Entregado",
		SubmittedDate: "2024-01-01", SubmittedTime: "08:00:00",
		DeliveredDate: "2024-01-02", DeliveredTime: "10:30:00",
	}

	nowA := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	nowB := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, ComputeDeliveryTime(order, nowA), ComputeDeliveryTime(order, nowB))
}

package planner

import (
	"testing"
	"time"
)

func TestNextSaturday(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "Midweek",
			now:  time.Date(2025, 6, 4, 9, 30, 0, 0, loc), // Wednesday
			want: time.Date(2025, 6, 7, 11, 0, 0, 0, loc),
		},
		{
			name: "FridayNight",
			now:  time.Date(2025, 6, 6, 23, 59, 0, 0, loc),
			want: time.Date(2025, 6, 7, 11, 0, 0, 0, loc),
		},
		{
			name: "SaturdayMorningAdvancesAWeek",
			now:  time.Date(2025, 6, 7, 8, 0, 0, 0, loc),
			want: time.Date(2025, 6, 14, 11, 0, 0, 0, loc),
		},
		{
			name: "SaturdayEveningAdvancesAWeek",
			now:  time.Date(2025, 6, 7, 20, 0, 0, 0, loc),
			want: time.Date(2025, 6, 14, 11, 0, 0, 0, loc),
		},
		{
			name: "Sunday",
			now:  time.Date(2025, 6, 8, 12, 0, 0, 0, loc),
			want: time.Date(2025, 6, 14, 11, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSaturday(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextSaturday(%v) = %v, want %v", tt.now, got, tt.want)
			}
			if got.Weekday() != time.Saturday {
				t.Errorf("result is a %v, want Saturday", got.Weekday())
			}
		})
	}

	t.Run("PreservesLocation", func(t *testing.T) {
		loc := time.FixedZone("PST", -8*3600)
		got := NextSaturday(time.Date(2025, 6, 4, 9, 0, 0, 0, loc))
		if got.Location() != loc {
			t.Errorf("location = %v, want %v", got.Location(), loc)
		}
	})
}

func TestEventTitle(t *testing.T) {
	if got := EventTitle("Riverside Park"); got != "Saturday Plan: Riverside Park" {
		t.Errorf("EventTitle() = %q", got)
	}
}

package models

import (
	"testing"
	"time"
)

func TestGranularity_String(t *testing.T) {
	tests := []struct {
		name string
		g    Granularity
		want string
	}{
		{"Minute", GranularityMinute, "1 minute"},
		{"Hour", GranularityHour, "1 hour"},
		{"Day", GranularityDay, "1 day"},
		{"TwelfthYear", GranularityTwelfthYear, "1/12 year"},
		{"Year", GranularityYear, "1 year"},
		{"Unknown", Granularity(99), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.String(); got != tt.want {
				t.Errorf("Granularity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGranularity_Duration(t *testing.T) {
	tests := []struct {
		name string
		g    Granularity
		want time.Duration
	}{
		{"Minute", GranularityMinute, time.Minute},
		{"Hour", GranularityHour, time.Hour},
		{"Day", GranularityDay, 24 * time.Hour},
		{"TwelfthYear", GranularityTwelfthYear, 30 * 24 * time.Hour},
		{"Year", GranularityYear, 365 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Duration(); got != tt.want {
				t.Errorf("Granularity.Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGranularity_NextPrev(t *testing.T) {
	tests := []struct {
		name     string
		g        Granularity
		wantNext Granularity
		wantPrev Granularity
	}{
		{"Minute", GranularityMinute, GranularityHour, GranularityYear},
		{"Day", GranularityDay, GranularityTwelfthYear, GranularityHour},
		{"Year", GranularityYear, GranularityMinute, GranularityTwelfthYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Next(); got != tt.wantNext {
				t.Errorf("Next() = %v, want %v", got, tt.wantNext)
			}
			if got := tt.g.Prev(); got != tt.wantPrev {
				t.Errorf("Prev() = %v, want %v", got, tt.wantPrev)
			}
		})
	}
}

func TestParseGranularity(t *testing.T) {
	for _, g := range Granularities() {
		got, ok := ParseGranularity(g.Key())
		if !ok || got != g {
			t.Errorf("ParseGranularity(%q) = %v, %v", g.Key(), got, ok)
		}
	}

	if _, ok := ParseGranularity("fortnight"); ok {
		t.Error("ParseGranularity accepted an unknown key")
	}
}

func TestGranularities_Ordered(t *testing.T) {
	all := Granularities()
	if len(all) != 5 {
		t.Fatalf("len(Granularities()) = %d, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Duration() <= all[i-1].Duration() {
			t.Errorf("%v is not coarser than %v", all[i], all[i-1])
		}
	}
	if Granularity(-1).Valid() || Granularity(5).Valid() {
		t.Error("out of range granularity reported as valid")
	}
}

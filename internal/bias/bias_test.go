package bias

import "testing"

func TestCategoryBoundaries(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{-5, "Left"},
		{-2.01, "Left"},
		{-2, "Lean Left"},
		{-1.99, "Lean Left"},
		{-0.51, "Lean Left"},
		{-0.5, "Center"},
		{0, "Center"},
		{0.5, "Center"},
		{0.51, "Lean Right"},
		{2, "Lean Right"},
		{2.01, "Right"},
		{5, "Right"},
	}
	for _, c := range cases {
		if got := Category(c.in); got != c.want {
			t.Fatalf("Category(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCategoryPartitionsRange(t *testing.T) {
	// Sweep [-5, 5] in small steps; every score must land in exactly one
	// category and adjacent categories must appear in order.
	order := map[string]int{
		"Left":       0,
		"Lean Left":  1,
		"Center":     2,
		"Lean Right": 3,
		"Right":      4,
	}
	prev := -1
	for b := -5.0; b <= 5.0; b += 0.01 {
		cat := Category(b)
		rank, ok := order[cat]
		if !ok {
			t.Fatalf("Category(%v) = %q, not a known category", b, cat)
		}
		if rank < prev {
			t.Fatalf("Category(%v) = %q went backwards", b, cat)
		}
		prev = rank
	}
	if prev != order["Right"] {
		t.Fatalf("sweep never reached Right")
	}
}

func TestBandMatchesCategory(t *testing.T) {
	cases := []struct {
		in   float64
		want Band
	}{
		{-3, BandStrongLeft},
		{-1, BandMildLeft},
		{0, BandNeutral},
		{1, BandMildRight},
		{3, BandStrongRight},
	}
	for _, c := range cases {
		if got := BandFor(c.in); got != c.want {
			t.Fatalf("BandFor(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGaugePosition(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 50},
		{5, 100},
		{2.5, 75},
		{-10, 0},
		{10, 100},
	}
	for _, c := range cases {
		if got := GaugePosition(c.in); got != c.want {
			t.Fatalf("GaugePosition(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIndicatorFor(t *testing.T) {
	ind := IndicatorFor(-2)
	if ind.Category != "Lean Left" || ind.Band != BandMildLeft || ind.GaugePosition != 30 {
		t.Fatalf("IndicatorFor(-2) = %+v", ind)
	}
}

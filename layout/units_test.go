package layout

import (
	"math"
	"testing"
)

func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt->mm->pt drift: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestLengthConversions(t *testing.T) {
	if got := Inches(1).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in to mm: want 25.4, got %g", got)
	}
	if got := (Length{Value: 2.54, Unit: UnitCM}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm to mm: want 25.4, got %g", got)
	}
	if got := Inches(0.25).ToTwips(); got != 360 {
		t.Fatalf("0.25in to dxa: want 360, got %d", got)
	}
	if got := Inches(6).ToEMU(); got != 5486400 {
		t.Fatalf("6in to emu: want 5486400, got %d", got)
	}
	if got := Twips(1440).ToPT(); got != 72 {
		t.Fatalf("1440dxa to pt: want 72, got %g", got)
	}
	if got := Twips(1440).ToMM(); math.Abs(got-25.4) > 1e-3 {
		t.Fatalf("1440dxa to mm: want ~25.4, got %g", got)
	}
	if got := (Length{Value: 72, Unit: UnitPT}).ToTwips(); got != 1440 {
		t.Fatalf("72pt to dxa: want 1440, got %d", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"5000", Twips(5000)},
		{"5000dxa", Twips(5000)},
		{"5000twips", Twips(5000)},
		{"5000twip", Twips(5000)},
		{" 4in ", Inches(4)},
		{"120mm", Millimeters(120)},
		{"12pt", Length{Value: 12, Unit: UnitPT}},
		{"3.5CM", Length{Value: 3.5, Unit: UnitCM}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "wide", "-5in", "0"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
}

func TestLengthString(t *testing.T) {
	if got := Inches(0.25).String(); got != "0.25in" {
		t.Fatalf("unexpected string: %s", got)
	}
	if got := Twips(5000).String(); got != "5000dxa" {
		t.Fatalf("unexpected string: %s", got)
	}
}

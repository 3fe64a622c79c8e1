package risk

import (
	"math"
	"testing"
)

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		lateral bool
		want    Category
	}{
		{"JustBelowCritical", 115, false, High},
		{"CriticalLowerBound", 116, false, Critical},
		{"TopOfRange", 140, false, Critical},
		{"HighLowerBound", 102, false, High},
		{"JustBelowHigh", 101.99, false, Moderate},
		{"ModerateLowerBound", 70, false, Moderate},
		{"BelowModerateNoLateral", 69, false, Minimal},
		{"BelowModerateLateral", 69, true, Low},
		{"LateralIgnoredAboveModerate", 90, true, Moderate},
		{"AlreadyClassified", 3, false, Moderate},
		{"AlreadyClassifiedRounded", 4.6, false, Critical},
		{"AlreadyClassifiedLowerEdge", 1, true, Minimal},
		{"JustAboveCategoryRange", 5.5, false, Minimal},
		{"NegativeRaw", -10, true, Low},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyScore(tt.score, tt.lateral); got != tt.want {
				t.Errorf("ClassifyScore(%v, %v) = %v, want %v", tt.score, tt.lateral, got, tt.want)
			}
		})
	}
}

func TestClassify_TaggedInputRemovesAmbiguity(t *testing.T) {
	// A legitimately low raw score is not mistaken for a category.
	if got := Classify(RawScore(3), false); got != Minimal {
		t.Errorf("Classify(RawScore(3)) = %v, want %v", got, Minimal)
	}
	if got := Classify(RawScore(3), true); got != Low {
		t.Errorf("Classify(RawScore(3), lateral) = %v, want %v", got, Low)
	}
	if got := Classify(AsCategory(3), false); got != Moderate {
		t.Errorf("Classify(AsCategory(3)) = %v, want %v", got, Moderate)
	}
	if got := Classify(AsCategory(9), false); got != Critical {
		t.Errorf("Classify(AsCategory(9)) = %v, want clamped %v", got, Critical)
	}
	if got := Classify(AsCategory(0), false); got != Minimal {
		t.Errorf("Classify(AsCategory(0)) = %v, want clamped %v", got, Minimal)
	}
}

func TestTagged(t *testing.T) {
	if in := Tagged(ScaleRaw, 4); in.Scale() != ScaleRaw {
		t.Errorf("Tagged(raw) scale = %q", in.Scale())
	}
	if in := Tagged(ScaleUnknown, 4); in.Scale() != ScaleCategory {
		t.Errorf("Tagged(unknown, 4) should sniff to category, got %q", in.Scale())
	}
	if in := Tagged(ScaleUnknown, 80); in.Scale() != ScaleRaw {
		t.Errorf("Tagged(unknown, 80) should sniff to raw, got %q", in.Scale())
	}
}

func TestClassify_CategoryOutOfIntRange(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Category
	}{
		{"huge", 1e19, Critical},
		{"huge negative", -1e19, Minimal},
		{"positive infinity", math.Inf(1), Critical},
		{"negative infinity", math.Inf(-1), Minimal},
		{"rounds up", 4.5, Critical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(Tagged(ScaleCategory, tt.value), false); got != tt.want {
				t.Errorf("Classify(category %v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestClassify_NaN(t *testing.T) {
	if got := Classify(RawScore(math.NaN()), true); got != Minimal {
		t.Errorf("Classify(NaN) = %v, want %v", got, Minimal)
	}
}

func TestBandsCoverDomain(t *testing.T) {
	prev := Minimal
	for s := 6.0; s <= 140; s += 0.5 {
		c := ClassifyScore(s, false)
		if !c.Valid() {
			t.Fatalf("score %v produced invalid category %d", s, c)
		}
		if c < prev {
			t.Fatalf("category decreased at score %v: %v -> %v", s, prev, c)
		}
		prev = c
	}
}

func TestCategoryLookups(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories() {
		if c.Color() == "" || c.Label() == "" {
			t.Errorf("category %d missing color or label", c)
		}
		if seen[c.Color()] {
			t.Errorf("category %d reuses color %s", c, c.Color())
		}
		seen[c.Color()] = true
	}
	if Category(0).Label() != "Unknown" {
		t.Errorf("expected Unknown label for invalid category")
	}
}

package domain_test

import (
	"testing"

	"pageturn/internal/modules/pace/domain"
)

func intp(v int) *int { return &v }

func samplesWithRatio(n, planned, actual int) []domain.Sample {
	out := make([]domain.Sample, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Sample{PlannedPages: planned, ActualPages: intp(actual)})
	}
	return out
}

func TestSlackFactorNeedsMinimumSamples(t *testing.T) {
	t.Parallel()
	tuning := domain.DefaultTuning()

	if got := domain.SlackFactor(nil, tuning); got != 0.90 {
		t.Fatalf("no samples = %v, want baseline 0.90", got)
	}
	if got := domain.SlackFactor(samplesWithRatio(2, 20, 20), tuning); got != 0.90 {
		t.Fatalf("two samples = %v, want baseline 0.90", got)
	}

	// Open sessions and zero-plan rows do not count toward the minimum.
	mixed := []domain.Sample{
		{PlannedPages: 20, ActualPages: intp(20)},
		{PlannedPages: 20, ActualPages: nil},
		{PlannedPages: 0, ActualPages: intp(10)},
		{PlannedPages: 20, ActualPages: intp(20)},
	}
	if got := domain.SlackFactor(mixed, tuning); got != 0.90 {
		t.Fatalf("two valid of four = %v, want baseline 0.90", got)
	}
}

func TestSlackFactorBreakpoints(t *testing.T) {
	t.Parallel()
	tuning := domain.DefaultTuning()

	cases := []struct {
		name    string
		planned int
		actual  int
		want    float64
	}{
		{"heavy undershoot", 100, 50, 0.87},
		{"mild undershoot", 100, 90, 0.89},
		{"on plan", 100, 100, 0.90},
		{"mild overshoot", 100, 110, 0.91},
		{"heavy overshoot", 100, 130, 0.93},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := domain.SlackFactor(samplesWithRatio(3, tc.planned, tc.actual), tuning)
			if !almostEqual(got, tc.want) {
				t.Fatalf("slack = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSlackFactorClipsExtremeRatios(t *testing.T) {
	t.Parallel()
	tuning := domain.DefaultTuning()

	// A 10x overshoot clips to 2.0 per sample, landing on the top delta
	// without blowing past the clamp.
	got := domain.SlackFactor(samplesWithRatio(3, 10, 100), tuning)
	if !almostEqual(got, 0.93) {
		t.Fatalf("clipped overshoot slack = %v, want 0.93", got)
	}
}

func TestSlackFactorStaysWithinClamp(t *testing.T) {
	t.Parallel()
	tuning := domain.DefaultTuning()
	tuning.BaselineSlack = 0.94

	got := domain.SlackFactor(samplesWithRatio(5, 10, 30), tuning)
	if got != 0.95 {
		t.Fatalf("slack = %v, want clamped 0.95", got)
	}

	tuning.BaselineSlack = 0.86
	got = domain.SlackFactor(samplesWithRatio(5, 100, 40), tuning)
	if got != 0.85 {
		t.Fatalf("slack = %v, want clamped 0.85", got)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}

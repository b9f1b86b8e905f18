package domain

// Sample is one finished session's planned-versus-actual page counts.
type Sample struct {
	PlannedPages int
	ActualPages  *int
}

func (s Sample) valid() bool {
	return s.PlannedPages > 0 && s.ActualPages != nil
}

// SlackFactor estimates how much of a recommendation the reader actually
// completes. Too few samples yields the baseline; otherwise the average
// completion ratio over the window nudges the baseline up or down within
// [SlackMin, SlackMax].
func SlackFactor(samples []Sample, tuning Tuning) float64 {
	tuning = tuning.Normalize()

	var (
		sum   float64
		count int
	)
	for _, sample := range samples {
		if !sample.valid() {
			continue
		}
		ratio := float64(*sample.ActualPages) / float64(sample.PlannedPages)
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 2 {
			ratio = 2
		}
		sum += ratio
		count++
	}
	if count < tuning.MinSamples {
		return tuning.BaselineSlack
	}

	avg := sum / float64(count)
	slack := tuning.BaselineSlack + slackDelta(avg)
	if slack < tuning.SlackMin {
		slack = tuning.SlackMin
	}
	if slack > tuning.SlackMax {
		slack = tuning.SlackMax
	}
	return slack
}

// slackDelta maps the average completion ratio to a baseline adjustment.
// Consistent under-completion trims the plan; overshooting grows it.
func slackDelta(avg float64) float64 {
	switch {
	case avg < 0.80:
		return -0.03
	case avg < 0.95:
		return -0.01
	case avg <= 1.05:
		return 0
	case avg <= 1.20:
		return 0.01
	default:
		return 0.03
	}
}

package domain

// Tuning holds the recommender constants. Operators override individual
// fields through the tuning file; zero fields fall back to defaults.
type Tuning struct {
	DefaultPPM        float64
	BaselineSlack     float64
	SlackMin          float64
	SlackMax          float64
	HistoryWindowDays int
	MinSamples        int
}

func DefaultTuning() Tuning {
	return Tuning{
		DefaultPPM:        0.8,
		BaselineSlack:     0.90,
		SlackMin:          0.85,
		SlackMax:          0.95,
		HistoryWindowDays: 7,
		MinSamples:        3,
	}
}

// Normalize fills zero fields from the defaults so a partial override
// file keeps the rest of the constants intact.
func (t Tuning) Normalize() Tuning {
	defaults := DefaultTuning()
	if t.DefaultPPM <= 0 {
		t.DefaultPPM = defaults.DefaultPPM
	}
	if t.BaselineSlack <= 0 {
		t.BaselineSlack = defaults.BaselineSlack
	}
	if t.SlackMin <= 0 {
		t.SlackMin = defaults.SlackMin
	}
	if t.SlackMax <= 0 {
		t.SlackMax = defaults.SlackMax
	}
	if t.HistoryWindowDays <= 0 {
		t.HistoryWindowDays = defaults.HistoryWindowDays
	}
	if t.MinSamples <= 0 {
		t.MinSamples = defaults.MinSamples
	}
	return t
}

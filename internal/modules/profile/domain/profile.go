package domain

import (
	"fmt"
	"time"
)

// Profile holds per-user reading parameters. BasePPM is pages read per
// minute of focused reading and must be positive once set.
type Profile struct {
	UserID    string
	BasePPM   float64
	UpdatedAt time.Time
}

func (p Profile) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if p.BasePPM <= 0 {
		return fmt.Errorf("base ppm must be positive, got %v", p.BasePPM)
	}
	return nil
}

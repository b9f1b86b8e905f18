package dto

import "time"

type SetBasePPMInput struct {
	UserID  string
	BasePPM float64
}

type ProfileOutput struct {
	UserID    string
	BasePPM   float64
	UpdatedAt time.Time
}

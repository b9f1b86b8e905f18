package domain

import "math"

// PlanParams are the resolved inputs for one recommendation.
type PlanParams struct {
	AvailableMinutes float64
	PPM              float64
	DifficultyFactor float64
	SlackFactor      float64
	CurrentPage      int
	PageCount        int
}

// Plan is a concrete page range to read next.
type Plan struct {
	StartPage          int
	EndPage            int
	PagesToRead        int
	RemainingPages     int
	IsAlreadyCompleted bool
}

// BuildPlan turns capacity into a page range. The raw estimate is
// minutes x ppm x difficulty x slack, floored at one page, then clamped
// to what is left of the book.
func BuildPlan(p PlanParams) Plan {
	pagesToRead := int(math.Round(p.AvailableMinutes * p.PPM * p.DifficultyFactor * p.SlackFactor))
	if pagesToRead < 1 {
		pagesToRead = 1
	}

	startPage := p.CurrentPage + 1
	if startPage > p.PageCount {
		startPage = p.PageCount
	}

	remaining := p.PageCount - p.CurrentPage
	if remaining < 0 {
		remaining = 0
	}

	if p.CurrentPage >= p.PageCount {
		return Plan{
			StartPage:          startPage,
			EndPage:            p.PageCount,
			PagesToRead:        0,
			RemainingPages:     remaining,
			IsAlreadyCompleted: true,
		}
	}

	endPage := startPage + pagesToRead - 1
	if endPage > p.PageCount {
		endPage = p.PageCount
	}
	return Plan{
		StartPage:      startPage,
		EndPage:        endPage,
		PagesToRead:    endPage - startPage + 1,
		RemainingPages: remaining,
	}
}

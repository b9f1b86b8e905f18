package dto

type RecommendInput struct {
	UserID           string
	BookID           string
	AvailableMinutes float64
}

type RecommendationOutput struct {
	EntryID  string
	BookID   string
	Title    string
	Authors  []string
	CoverURL string

	StartPage          int
	EndPage            int
	PagesToRead        int
	CurrentPage        int
	PageCount          int
	RemainingPages     int
	IsAlreadyCompleted bool

	UsedPPM          float64
	DifficultyFactor float64
	SlackFactor      float64
}

package dto

type BookOutput struct {
	ID            string
	ISBN13        string
	Title         string
	Authors       []string
	Publisher     string
	PublishedDate string
	PageCount     int
	Categories    []string
	CoverURL      string
	Language      string
}

type RegisterBookInput struct {
	ID            string
	ISBN13        string
	Title         string
	Authors       []string
	Publisher     string
	PublishedDate string
	PageCount     int
	Categories    []string
	CoverURL      string
	Language      string
}

type EnsurePageCountOutput struct {
	BookID    string
	PageCount int
	// Source names which tier supplied the count: "cache" or a provider name.
	Source string
}

type ProviderPluginInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	Error           string
}

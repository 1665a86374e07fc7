package objects

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GenreCount struct {
	Genre      string `json:"genre"`
	UsageCount int    `json:"usage_count"`
}

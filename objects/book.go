package objects

import "github.com/samber/lo"

type Book struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Year   int     `json:"year"`
	Genres []Genre `json:"genres"`
}

// GenreNames returns genre names in association order.
func (b Book) GenreNames() []string {
	return lo.Map(b.Genres, func(g Genre, _ int) string { return g.Name })
}

// NewBook carries the fields needed to add a book to the catalog.
type NewBook struct {
	Title  string   `json:"title" binding:"required"`
	Author string   `json:"author" binding:"required"`
	Year   int      `json:"year" binding:"required,min=0,max=9999"`
	Genres []string `json:"genres"`
}

// BookUpdate lists the fields to change. A nil field keeps its prior value.
// Empty Title or Author and zero Year are treated as not provided.
// A non-nil Genres, even empty, replaces the whole genre set.
type BookUpdate struct {
	Title  *string   `json:"title,omitempty"`
	Author *string   `json:"author,omitempty"`
	Year   *int      `json:"year,omitempty" binding:"omitempty,min=1,max=9999"`
	Genres *[]string `json:"genres,omitempty"`
}

type AuthorCount struct {
	Author    string `json:"author"`
	BookCount int    `json:"book_count"`
}

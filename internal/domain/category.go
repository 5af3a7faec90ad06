package domain

import (
	"fmt"
	"strings"
)

// Category names one of the fixed question topics, or All.
type Category string

const (
	CategoryCinema     Category = "cinema"
	CategoryMusic      Category = "music"
	CategoryHistory    Category = "history"
	CategorySports     Category = "sports"
	CategoryVideogames Category = "videogames"
	CategoryScience    Category = "science"

	// CategoryAll draws questions from every concrete category.
	CategoryAll Category = "all"
)

// CategoryInfo is display metadata for the category-selection screen.
type CategoryInfo struct {
	Category  Category `json:"category"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon"`
	Questions int      `json:"questions"`
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryCinema:     {Category: CategoryCinema, Name: "Cinema & TV", Icon: "🎬"},
	CategoryMusic:      {Category: CategoryMusic, Name: "Music", Icon: "🎵"},
	CategoryHistory:    {Category: CategoryHistory, Name: "History", Icon: "🏛️"},
	CategorySports:     {Category: CategorySports, Name: "Sports", Icon: "⚽"},
	CategoryVideogames: {Category: CategoryVideogames, Name: "Videogames", Icon: "🎮"},
	CategoryScience:    {Category: CategoryScience, Name: "Science", Icon: "🔬"},
	CategoryAll:        {Category: CategoryAll, Name: "All categories", Icon: "🌟"},
}

// Categories returns the concrete categories in display order.
func Categories() []Category {
	return []Category{
		CategoryCinema,
		CategoryMusic,
		CategoryHistory,
		CategorySports,
		CategoryVideogames,
		CategoryScience,
	}
}

// ParseCategory maps a raw name onto the fixed set. Matching is case-insensitive.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := categoryInfo[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// Valid reports whether c is a concrete category or All.
func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// Concrete reports whether a question may belong to c.
func (c Category) Concrete() bool {
	return c.Valid() && c != CategoryAll
}

// Info returns display metadata without a question count.
func (c Category) Info() CategoryInfo {
	return categoryInfo[c]
}

func (c Category) String() string {
	return string(c)
}

package model

// Category groups events by theme. The set of categories is seeded at database
// initialization and is read-only from the API surface.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SeedCategories is the fixed starter set inserted by the migrations.
var SeedCategories = []string{"Drinks", "Culture", "Film", "Food", "Music", "Travel"}

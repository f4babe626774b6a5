package model

// Sport is a named activity students can register for.
// Rows are created once at startup from the seed list and never change at runtime.
type Sport struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}

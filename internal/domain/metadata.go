package domain

import "fmt"

// BookMetadata is the extended catalog information shown in the details overlay
type BookMetadata struct {
	Description   string  `json:"description"` // markdown, converted from catalog markup
	PageCount     int     `json:"page_count"`
	Year          string  `json:"year"`     // leading 4-digit year of the publish date
	Category      string  `json:"category"` // first category only
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// HasRating returns true if the catalog supplied a rating
func (m BookMetadata) HasRating() bool {
	return m.AverageRating > 0
}

// FormattedRating returns "4.2 (1,024)" style text, or "" without a rating
func (m BookMetadata) FormattedRating() string {
	if !m.HasRating() {
		return ""
	}
	if m.RatingsCount > 0 {
		return fmt.Sprintf("%.1f (%d)", m.AverageRating, m.RatingsCount)
	}
	return fmt.Sprintf("%.1f", m.AverageRating)
}

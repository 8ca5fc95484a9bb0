package catalog

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mmcdole/chapternode/internal/domain"
)

// DefaultDescription is shown when the catalog has no description
const DefaultDescription = "No description available for this book."

// Mapper converts catalog DTOs to domain metadata
type Mapper struct {
	converter *md.Converter
}

// NewMapper creates a mapper. Descriptions are untrusted markup:
// script and style elements are dropped before conversion.
func NewMapper() *Mapper {
	conv := md.NewConverter("", true, nil)
	conv.Remove("script", "style", "iframe")
	return &Mapper{converter: conv}
}

// MapMetadata converts a volume to domain metadata
func (m *Mapper) MapMetadata(v Volume) domain.BookMetadata {
	info := v.VolumeInfo
	meta := domain.BookMetadata{
		Description:   m.description(info.Description),
		PageCount:     info.PageCount,
		Year:          publishYear(info.PublishedDate),
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}
	if len(info.Categories) > 0 {
		meta.Category = info.Categories[0]
	}
	return meta
}

func (m *Mapper) description(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultDescription
	}
	text, err := m.converter.ConvertString(raw)
	if err != nil {
		// Fall back to the raw text rather than losing the description
		return raw
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultDescription
	}
	return text
}

// publishYear returns the leading four-digit year of a publish date
func publishYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}

package catalog

// VolumesResponse is the root of a Google Books volumes search response
type VolumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items,omitempty"`
}

// Volume is a single search result
type Volume struct {
	ID         string     `json:"id"`
	SelfLink   string     `json:"selfLink,omitempty"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the bibliographic fields of a volume
type VolumeInfo struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle,omitempty"`
	Authors       []string    `json:"authors,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"` // "2018", "2018-10", "2018-10-16"
	Description   string      `json:"description,omitempty"`   // may contain HTML
	PageCount     int         `json:"pageCount,omitempty"`
	Categories    []string    `json:"categories,omitempty"`
	AverageRating float64     `json:"averageRating,omitempty"`
	RatingsCount  int         `json:"ratingsCount,omitempty"`
	Language      string      `json:"language,omitempty"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
}

// ImageLinks holds cover thumbnails
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

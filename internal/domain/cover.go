package domain

import "net/url"

const avatarBaseURL = "https://ui-avatars.com/api/"

// PlaceholderCoverURL returns a generated cover image URL for a title
func PlaceholderCoverURL(title string) string {
	q := url.Values{}
	q.Set("name", title)
	q.Set("background", "random")
	q.Set("size", "200")
	return avatarBaseURL + "?" + q.Encode()
}

package models

// NewsItem is the normalized shape of a fused feed entry. Never persisted.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	VideoURL    string `json:"videoUrl"`
	PubDate     string `json:"pubDate"`
	Location    string `json:"location"`
}

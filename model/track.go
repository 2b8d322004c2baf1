package model

// Track represents one playable song in the library. Tracks are immutable
// once loaded; the order of a track slice is the playlist order.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration float64 `json:"duration"` // seconds, 0 until metadata is known
	AudioURL string  `json:"audioUrl"` // resolved playable locator
	CoverURL string  `json:"coverUrl,omitempty"`
}

// SongRow mirrors a row of the backend songs table. Paths are bucket-relative
// object paths, not resolved URLs.
type SongRow struct {
	ID        string  `json:"id,omitempty"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Album     string  `json:"album"`
	Duration  int     `json:"duration"`
	AudioPath string  `json:"audio_url"`
	ImagePath *string `json:"image_url"`
	UserID    string  `json:"user_id"`
	CreatedAt string  `json:"created_at,omitempty"`
}

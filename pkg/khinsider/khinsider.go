// Package khinsider scrapes the downloads.khinsider.com catalog: album
// search, track listings, and direct audio URLs. The site serves plain HTML
// and throttles aggressive clients, so every request goes through a small
// retry loop that rotates browser user agents.
package khinsider

// DefaultBaseURL is the production catalog host.
const DefaultBaseURL = "https://downloads.khinsider.com"

// SearchResult is one album hit from a catalog search.
type SearchResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon,omitempty"`
}

// Track is one row of an album's track table.
type Track struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// Album is a full album page: title, artwork, and track listing.
type Album struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Icon        string  `json:"icon,omitempty"`
	Tracks      []Track `json:"tracks"`
	TotalTracks int     `json:"total_tracks"`
}

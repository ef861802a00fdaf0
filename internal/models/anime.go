// This file defines the catalog-side data structures. Field names follow the
// Jikan (MyAnimeList) v4 payload so records can be decoded directly.

package models

// Anime is an immutable snapshot of one series from the catalog.
type Anime struct {
	MalID    int         `json:"mal_id"`
	Title    string      `json:"title"`
	Images   AnimeImages `json:"images"`
	Synopsis string      `json:"synopsis"`
	Episodes *int        `json:"episodes,omitempty"`
	Score    *float64    `json:"score,omitempty"`
	Genres   []Genre     `json:"genres,omitempty"`
}

type AnimeImages struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

type Genre struct {
	Name string `json:"name"`
}

// GenreNames returns the genre names in catalog order.
func (a Anime) GenreNames() []string {
	names := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		names = append(names, g.Name)
	}
	return names
}

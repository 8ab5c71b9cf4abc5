package models

import (
	"fmt"
	"strings"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
	MediaTypeAll   = "all"

	// VideoTypeTrailer and VideoTypeTeaser are the clip types a title's video list may carry.
	VideoTypeTrailer = "Trailer"
	VideoTypeTeaser  = "Teaser"

	// ImageBaseURL is the TMDB image CDN root; sizes such as w500 or original follow it.
	ImageBaseURL = "https://image.tmdb.org/t/p"

	PosterPlaceholderURL   = "https://via.placeholder.com/500x750/0B0F14/00E5FF?text=No+Image"
	BackdropPlaceholderURL = "https://via.placeholder.com/1920x1080/0B0F14/00E5FF?text=NebulaStream"
)

// Genre is a TMDB genre tag.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Video is a promotional clip attached to a title.
type Video struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type"`
	Site     string `json:"site"`
	Key      string `json:"key,omitempty"`
	URL      string `json:"url,omitempty"`
	Official bool   `json:"official,omitempty"`
	Language string `json:"iso_639_1,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// VideoList mirrors TMDB's append_to_response=videos envelope.
type VideoList struct {
	Results []Video `json:"results"`
}

// CastMember is a single credited performer.
type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

// Credits mirrors TMDB's append_to_response=credits envelope.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Title is a movie or TV series record from the metadata catalog. Movies carry
// Title/ReleaseDate, series carry Name/FirstAirDate.
type Title struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title,omitempty"`
	Name         string     `json:"name,omitempty"`
	MediaType    string     `json:"media_type,omitempty"`
	Overview     string     `json:"overview"`
	ReleaseDate  string     `json:"release_date,omitempty"`
	FirstAirDate string     `json:"first_air_date,omitempty"`
	VoteAverage  float64    `json:"vote_average"`
	PosterPath   string     `json:"poster_path,omitempty"`
	BackdropPath string     `json:"backdrop_path,omitempty"`
	GenreIDs     []int64    `json:"genre_ids,omitempty"`
	Genres       []Genre    `json:"genres,omitempty"`
	Runtime      int        `json:"runtime,omitempty"`
	Videos       *VideoList `json:"videos,omitempty"`
	Credits      *Credits   `json:"credits,omitempty"`
}

// PagedTitles is the list envelope returned by trending, popular and search.
type PagedTitles struct {
	Page         int     `json:"page"`
	Results      []Title `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// DisplayName returns the movie title or series name.
func (t Title) DisplayName() string {
	if name := strings.TrimSpace(t.Title); name != "" {
		return name
	}
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return "Untitled"
}

// ResolvedMediaType returns the explicit media type, else movie when the record
// carries a movie title, else tv.
func (t Title) ResolvedMediaType() string {
	switch strings.ToLower(strings.TrimSpace(t.MediaType)) {
	case MediaTypeMovie:
		return MediaTypeMovie
	case MediaTypeTV:
		return MediaTypeTV
	case "":
	default:
		return strings.ToLower(strings.TrimSpace(t.MediaType))
	}
	if strings.TrimSpace(t.Title) != "" {
		return MediaTypeMovie
	}
	return MediaTypeTV
}

// Year extracts the year from the release or first-air date, or "N/A".
func (t Title) Year() string {
	for _, date := range []string{t.ReleaseDate, t.FirstAirDate} {
		date = strings.TrimSpace(date)
		if date == "" {
			continue
		}
		year, _, _ := strings.Cut(date, "-")
		if year != "" {
			return year
		}
	}
	return "N/A"
}

// RatingLabel formats the vote average to one decimal, or "N/A" when unrated.
func (t Title) RatingLabel() string {
	if t.VoteAverage == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", t.VoteAverage)
}

// VideoResults returns the attached video list, tolerating a missing envelope.
func (t Title) VideoResults() []Video {
	if t.Videos == nil {
		return nil
	}
	return t.Videos.Results
}

// PosterURL prefers the poster, then the backdrop, then a placeholder.
func (t Title) PosterURL(size string) string {
	if url := ImageURL(t.PosterPath, size); url != "" {
		return url
	}
	if url := ImageURL(t.BackdropPath, size); url != "" {
		return url
	}
	return PosterPlaceholderURL
}

// BackdropURL returns the backdrop image or the hero placeholder.
func (t Title) BackdropURL(size string) string {
	if url := ImageURL(t.BackdropPath, size); url != "" {
		return url
	}
	return BackdropPlaceholderURL
}

// ImageURL builds a TMDB CDN URL; an empty path yields an empty string.
func ImageURL(path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ImageBaseURL + "/" + size + path
}

// NormalizeMediaType maps user supplied media type aliases onto movie or tv.
// ok is false when the value is not recognised.
func NormalizeMediaType(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies", "film", "films":
		return MediaTypeMovie, true
	case "tv", "series", "show", "shows":
		return MediaTypeTV, true
	default:
		return "", false
	}
}

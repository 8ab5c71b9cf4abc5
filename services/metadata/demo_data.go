package metadata

import (
	"strings"

	"github.com/Terence890/Nebula-Stream/models"
)

// Public domain titles served when no TMDB key is configured.
var demoMovies = []models.Title{
	{
		ID:          1831,
		Title:       "Night of the Living Dead",
		MediaType:   models.MediaTypeMovie,
		Overview:    "A group of survivors barricade themselves in a farmhouse as the dead return to life and hunger for the living.",
		ReleaseDate: "1968-10-01",
		VoteAverage: 7.5,
		Runtime:     96,
		Genres:      []models.Genre{{ID: 27, Name: "Horror"}},
		Videos: &models.VideoList{Results: []models.Video{
			{Name: "Full feature", Type: models.VideoTypeTrailer, Site: "Internet Archive", URL: "https://archive.org/details/night_of_the_living_dead"},
		}},
	},
	{
		ID:          20376,
		Title:       "The Brain That Wouldn't Die",
		MediaType:   models.MediaTypeMovie,
		Overview:    "A scientist keeps his fiancée's severed head alive while searching for a new body to complete his experiment.",
		ReleaseDate: "1962-05-03",
		VoteAverage: 4.9,
		Runtime:     82,
		Genres:      []models.Genre{{ID: 27, Name: "Horror"}, {ID: 878, Name: "Science Fiction"}},
	},
	{
		ID:          9984,
		Title:       "Detour",
		MediaType:   models.MediaTypeMovie,
		Overview:    "A down-on-his-luck musician hitchhiking to Hollywood gets caught up in a web of fate and murder.",
		ReleaseDate: "1945-11-30",
		VoteAverage: 6.9,
		Runtime:     68,
		Genres:      []models.Genre{{ID: 80, Name: "Crime"}, {ID: 53, Name: "Thriller"}},
	},
}

var demoSeries = []models.Title{
	{
		ID:           71471,
		Name:         "The Beverly Hillbillies",
		MediaType:    models.MediaTypeTV,
		Overview:     "A poor backwoods family strikes oil and moves to Beverly Hills, where their down-home ways clash hilariously with high society.",
		FirstAirDate: "1962-09-26",
		VoteAverage:  7.1,
		Genres:       []models.Genre{{ID: 35, Name: "Comedy"}},
	},
	{
		ID:           76479,
		Name:         "One Step Beyond",
		MediaType:    models.MediaTypeTV,
		Overview:     "Hosted by John Newland, this anthology explores allegedly true tales of the paranormal and unexplained.",
		FirstAirDate: "1959-01-20",
		VoteAverage:  7.3,
		Genres:       []models.Genre{{ID: 9648, Name: "Mystery"}},
	},
	{
		ID:           77404,
		Name:         "The Cisco Kid",
		MediaType:    models.MediaTypeTV,
		Overview:     "The charming Mexican caballero and his sidekick Pancho ride through the Old West helping those in need.",
		FirstAirDate: "1950-09-05",
		VoteAverage:  6.8,
		Genres:       []models.Genre{{ID: 37, Name: "Western"}},
	},
}

func demoCatalog(mediaType string) []models.Title {
	switch mediaType {
	case models.MediaTypeMovie:
		return copyTitles(demoMovies)
	case models.MediaTypeTV:
		return copyTitles(demoSeries)
	default:
		all := copyTitles(demoMovies)
		return append(all, copyTitles(demoSeries)...)
	}
}

// demoPage serves the whole catalog as page 1 and nothing after it.
func demoPage(titles []models.Title, page int) *models.PagedTitles {
	out := &models.PagedTitles{Page: page, TotalPages: 1, TotalResults: len(titles), Results: []models.Title{}}
	if page == 1 {
		for _, t := range titles {
			t.Videos = nil
			out.Results = append(out.Results, t)
		}
	}
	return out
}

// searchDemo matches the query against demo titles and overviews.
func searchDemo(query string) []models.Title {
	query = strings.ToLower(strings.TrimSpace(query))
	var matches []models.Title
	for _, t := range demoCatalog(models.MediaTypeAll) {
		if strings.Contains(strings.ToLower(t.DisplayName()), query) ||
			strings.Contains(strings.ToLower(t.Overview), query) {
			matches = append(matches, t)
		}
	}
	return matches
}

func findDemo(mediaType string, id int64) (models.Title, bool) {
	for _, t := range demoCatalog(mediaType) {
		if t.ID == id {
			if t.Videos != nil {
				videos := models.VideoList{Results: append([]models.Video(nil), t.Videos.Results...)}
				t.Videos = &videos
			}
			return t, true
		}
	}
	return models.Title{}, false
}

func copyTitles(titles []models.Title) []models.Title {
	cloned := make([]models.Title, len(titles))
	copy(cloned, titles)
	return cloned
}

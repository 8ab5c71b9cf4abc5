package models

import "testing"

func TestTitleResolvedMediaType(t *testing.T) {
	tests := []struct {
		name  string
		title Title
		want  string
	}{
		{"explicit movie", Title{MediaType: "movie", Name: "ignored"}, MediaTypeMovie},
		{"explicit tv", Title{MediaType: "TV", Title: "ignored"}, MediaTypeTV},
		{"inferred movie", Title{Title: "Heat"}, MediaTypeMovie},
		{"inferred tv", Title{Name: "Dark"}, MediaTypeTV},
	}
	for _, tt := range tests {
		if got := tt.title.ResolvedMediaType(); got != tt.want {
			t.Fatalf("%s: ResolvedMediaType() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitleYearAndRating(t *testing.T) {
	movie := Title{ReleaseDate: "2024-05-01", VoteAverage: 7.456}
	if year := movie.Year(); year != "2024" {
		t.Fatalf("expected 2024, got %q", year)
	}
	if rating := movie.RatingLabel(); rating != "7.5" {
		t.Fatalf("expected 7.5, got %q", rating)
	}

	series := Title{FirstAirDate: "2019-01-01"}
	if year := series.Year(); year != "2019" {
		t.Fatalf("expected 2019, got %q", year)
	}
	if rating := series.RatingLabel(); rating != "N/A" {
		t.Fatalf("expected N/A, got %q", rating)
	}
	if year := (Title{}).Year(); year != "N/A" {
		t.Fatalf("expected N/A for missing dates, got %q", year)
	}
}

func TestTitlePosterFallbacks(t *testing.T) {
	withPoster := Title{PosterPath: "/poster.png", BackdropPath: "/backdrop.png"}
	if url := withPoster.PosterURL("w500"); url != "https://image.tmdb.org/t/p/w500/poster.png" {
		t.Fatalf("unexpected poster url: %s", url)
	}

	backdropOnly := Title{BackdropPath: "/backdrop.png"}
	if url := backdropOnly.PosterURL("w500"); url != "https://image.tmdb.org/t/p/w500/backdrop.png" {
		t.Fatalf("unexpected backdrop fallback: %s", url)
	}

	if url := (Title{}).PosterURL("w500"); url != PosterPlaceholderURL {
		t.Fatalf("expected placeholder, got %s", url)
	}
	if url := ImageURL("", "w500"); url != "" {
		t.Fatalf("expected empty url for empty path, got %s", url)
	}
}

func TestNormalizeMediaType(t *testing.T) {
	for input, want := range map[string]string{"Movies": MediaTypeMovie, "series": MediaTypeTV, " tv ": MediaTypeTV} {
		got, ok := NormalizeMediaType(input)
		if !ok || got != want {
			t.Fatalf("NormalizeMediaType(%q) = %q,%v want %q", input, got, ok, want)
		}
	}
	if _, ok := NormalizeMediaType("person"); ok {
		t.Fatal("expected person to be rejected")
	}
}

package metadata

import (
	"net/url"
	"strings"

	"github.com/Terence890/Nebula-Stream/models"
)

// normalizeVideos fills in whichever of site/key or url a video is missing so
// clients can either embed it or link out to it.
func normalizeVideos(title *models.Title) {
	if title == nil || title.Videos == nil {
		return
	}
	for i := range title.Videos.Results {
		v := &title.Videos.Results[i]
		if v.Key == "" && v.URL != "" {
			site, key := deriveVideoSource(v.URL)
			if v.Site == "" {
				v.Site = site
			}
			v.Key = key
		}
		if v.URL == "" && v.Key != "" {
			v.URL = watchURL(v.Site, v.Key)
		}
	}
}

func watchURL(site, key string) string {
	switch strings.ToLower(strings.TrimSpace(site)) {
	case "youtube":
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
	case "vimeo":
		return "https://vimeo.com/" + url.PathEscape(key)
	default:
		return ""
	}
}

func deriveVideoSource(urlStr string) (site string, key string) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed == nil {
		return "", ""
	}
	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be"):
		return "YouTube", extractYouTubeID(parsed)
	case strings.Contains(host, "vimeo.com"):
		return "Vimeo", strings.Trim(strings.TrimPrefix(parsed.Path, "/"), "/")
	default:
		return parsed.Host, ""
	}
}

func extractYouTubeID(u *url.URL) string {
	if u == nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	switch {
	case strings.Contains(host, "youtu.be"):
		return strings.Trim(strings.TrimSpace(u.Path), "/")
	case strings.Contains(host, "youtube.com"):
		if strings.HasPrefix(u.Path, "/watch") {
			return strings.TrimSpace(u.Query().Get("v"))
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 && (strings.EqualFold(parts[0], "embed") || strings.EqualFold(parts[0], "v")) {
			return parts[1]
		}
	}
	return ""
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Terence890/Nebula-Stream/models"
)

// Register creates an account and returns its access token.
func (c *Client) Register(ctx context.Context, email, password string) (models.Token, error) {
	var token models.Token
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   models.Credentials{Email: email, Password: password},
	}, &token)
	return token, err
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (models.Token, error) {
	var token models.Token
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   models.Credentials{Email: email, Password: password},
	}, &token)
	return token, err
}

// Me returns the account behind the attached token.
func (c *Client) Me(ctx context.Context) (models.Me, error) {
	var me models.Me
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", auth: true}, &me)
	return me, err
}

// Logout revokes the server side session of the attached token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", auth: true}, nil)
}

func (c *Client) Profiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := c.do(ctx, request{method: http.MethodGet, path: "/profiles", auth: true}, &profiles)
	return profiles, err
}

func (c *Client) CreateProfile(ctx context.Context, req models.ProfileCreate) (models.Profile, error) {
	var profile models.Profile
	err := c.do(ctx, request{method: http.MethodPost, path: "/profiles", body: req, auth: true}, &profile)
	return profile, err
}

// Trending returns trending titles across movies and series.
func (c *Client) Trending(ctx context.Context, page int) (*models.PagedTitles, error) {
	q := pageQuery(page)
	q.Set("media_type", models.MediaTypeAll)
	var out models.PagedTitles
	if err := c.do(ctx, request{method: http.MethodGet, path: "/titles/trending", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Popular returns popular titles of mediaType (movie or tv).
func (c *Client) Popular(ctx context.Context, mediaType string, page int) (*models.PagedTitles, error) {
	q := pageQuery(page)
	q.Set("media_type", mediaType)
	var out models.PagedTitles
	if err := c.do(ctx, request{method: http.MethodGet, path: "/titles/popular", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (*models.PagedTitles, error) {
	q := pageQuery(page)
	q.Set("query", query)
	var out models.PagedTitles
	if err := c.do(ctx, request{method: http.MethodGet, path: "/titles/search", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Details returns the full record of a title including its videos.
func (c *Client) Details(ctx context.Context, mediaType string, id int64) (*models.Title, error) {
	var out models.Title
	path := "/titles/" + url.PathEscape(mediaType) + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToWatchlist saves a title for profileID. The returned message tells
// whether it was added or already present.
func (c *Client) AddToWatchlist(ctx context.Context, profileID string, item models.WatchlistAdd) (models.Message, error) {
	var msg models.Message
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/watchlist",
		query:  profileQuery(profileID),
		body:   item,
		auth:   true,
	}, &msg)
	return msg, err
}

func (c *Client) Watchlist(ctx context.Context, profileID string) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	err := c.do(ctx, request{method: http.MethodGet, path: "/watchlist", query: profileQuery(profileID), auth: true}, &items)
	return items, err
}

func (c *Client) RemoveFromWatchlist(ctx context.Context, profileID string, tmdbID int64) (models.Message, error) {
	var msg models.Message
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/watchlist/" + strconv.FormatInt(tmdbID, 10),
		query:  profileQuery(profileID),
		auth:   true,
	}, &msg)
	return msg, err
}

// RecordProgress upserts the watch position of a title for profileID.
func (c *Client) RecordProgress(ctx context.Context, profileID string, update models.WatchHistoryUpdate) (models.Message, error) {
	var msg models.Message
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/watch-history",
		query:  profileQuery(profileID),
		body:   update,
		auth:   true,
	}, &msg)
	return msg, err
}

// History returns the profile's watch history, most recent first.
func (c *Client) History(ctx context.Context, profileID string) ([]models.WatchHistoryItem, error) {
	var items []models.WatchHistoryItem
	err := c.do(ctx, request{method: http.MethodGet, path: "/watch-history", query: profileQuery(profileID), auth: true}, &items)
	return items, err
}

// ServerVersion reports the backend build version.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/version"}, &out)
	return out.Version, err
}

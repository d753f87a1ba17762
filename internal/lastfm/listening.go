package lastfm

import (
	"context"
	"strings"

	"github.com/shkh/lastfm-go/lastfm"

	"github.com/llehouerou/starchart/internal/music"
)

// TopArtists returns the user's most played artists over window, most played
// first. Tags are not filled; see ArtistTags.
func (c *Client) TopArtists(ctx context.Context, user string, window music.Window, limit int) ([]music.RawArtist, error) {
	params := lastfm.P{"user": user, "period": string(window), "limit": limit}
	result, err := call(ctx, c, "user.getTopArtists", func() (lastfm.UserGetTopArtists, error) {
		return c.api.User.GetTopArtists(params)
	})
	if err != nil {
		return nil, err
	}

	artists := make([]music.RawArtist, 0, len(result.Artists))
	for _, a := range result.Artists {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		artists = append(artists, music.RawArtist{ExternalID: a.Mbid, Name: a.Name})
	}
	return artists, nil
}

// TopTracks returns the user's most played tracks over window.
func (c *Client) TopTracks(ctx context.Context, user string, window music.Window, limit int) ([]music.Track, error) {
	params := lastfm.P{"user": user, "period": string(window), "limit": limit}
	result, err := call(ctx, c, "user.getTopTracks", func() (lastfm.UserGetTopTracks, error) {
		return c.api.User.GetTopTracks(params)
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]music.Track, 0, len(result.Tracks))
	for _, t := range result.Tracks {
		tracks = append(tracks, music.Track{
			Name:   t.Name,
			Artist: music.RawArtist{ExternalID: t.Artist.Mbid, Name: t.Artist.Name},
		})
	}
	return tracks, nil
}

// ArtistTags returns the artist's folksonomy tags, most voted first.
func (c *Client) ArtistTags(ctx context.Context, artist string) ([]string, error) {
	params := lastfm.P{"artist": artist, "autocorrect": 1}
	result, err := call(ctx, c, "artist.getTopTags", func() (lastfm.ArtistGetTopTags, error) {
		return c.api.Artist.GetTopTags(params)
	})
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(result.Tags))
	for _, t := range result.Tags {
		if name := strings.TrimSpace(t.Name); name != "" {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// ArtistListeners returns the artist's global listener count.
func (c *Client) ArtistListeners(ctx context.Context, artist string) (int64, error) {
	params := lastfm.P{"artist": artist, "autocorrect": 1}
	result, err := call(ctx, c, "artist.getInfo", func() (lastfm.ArtistGetInfo, error) {
		return c.api.Artist.GetInfo(params)
	})
	if err != nil {
		return 0, err
	}
	return parseCount(result.Stats.Listeners), nil
}

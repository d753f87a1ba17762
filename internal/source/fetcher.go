// Package source collects a listener's listening data from Last.fm and
// shapes it into chart inputs. Artist tags, or MusicBrainz genres when the
// genres kind is configured, and listener counts go through a SQLite cache.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/starchart/internal/chart"
	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/music"
)

// ErrNoData is returned when every listening call failed.
var ErrNoData = errors.New("no listening data fetched")

// Provider is the listening-data API. *lastfm.Client implements it.
type Provider interface {
	TopArtists(ctx context.Context, user string, window music.Window, limit int) ([]music.RawArtist, error)
	TopTracks(ctx context.Context, user string, window music.Window, limit int) ([]music.Track, error)
	ArtistTags(ctx context.Context, artist string) ([]string, error)
	ArtistListeners(ctx context.Context, artist string) (int64, error)
}

// GenreProvider looks up coarse artist genres. *musicbrainz.Client
// implements it.
type GenreProvider interface {
	ArtistGenres(ctx context.Context, name, mbid string) ([]string, error)
}

// Cache stores per-artist lookups. *TagCache implements it.
type Cache interface {
	GetTags(artist string) ([]string, bool, error)
	SetTags(artist string, tags []string) error
	GetListeners(artist string) (int64, bool, error)
	SetListeners(artist string, listeners int64) error
}

// FetchError is a failed upstream call.
type FetchError struct {
	Call     string
	Listener string
	Window   music.Window
	Err      error
}

func (e *FetchError) Error() string {
	if e.Window != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Call, e.Listener, e.Window, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Call, e.Listener, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config selects what is fetched for each listener.
type Config struct {
	Primary     []music.Window `koanf:"primary"`      // recent windows
	Secondary   []music.Window `koanf:"secondary"`    // long windows
	TrackWindow music.Window   `koanf:"track_window"` // window of top tracks, empty to skip
	Limit       int            `koanf:"limit"`        // items per window
	Concurrency int            `koanf:"concurrency"`  // concurrent artist lookups
	Listeners   bool           `koanf:"listeners"`    // fetch listener counts for popularity
	Kind        string         `koanf:"kind"`         // "tags" or "genres"
}

// DefaultConfig returns the standard windows and limits.
func DefaultConfig() Config {
	return Config{
		Primary:     []music.Window{music.Month, music.Quarter},
		Secondary:   []music.Window{music.Year, music.Overall},
		TrackWindow: music.Quarter,
		Limit:       50,
		Concurrency: 4,
		Listeners:   true,
		Kind:        string(classify.SourceTags),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.Primary) == 0 {
		c.Primary = d.Primary
	}
	if c.Limit <= 0 {
		c.Limit = d.Limit
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

// Fetcher implements chart.Fetcher over a Provider.
type Fetcher struct {
	provider Provider
	genres   GenreProvider
	cache    Cache
	cfg      Config
}

// NewFetcher creates a Fetcher. cache may be nil.
func NewFetcher(p Provider, cache Cache, cfg Config) *Fetcher {
	return &Fetcher{provider: p, cache: cache, cfg: cfg.withDefaults()}
}

// WithGenres sets the genre provider used when the configured kind is
// genres.
func (f *Fetcher) WithGenres(g GenreProvider) *Fetcher {
	f.genres = g
	return f
}

// kind returns the data kind the fetched strings carry. Genres without a
// provider fall back to tags.
func (f *Fetcher) kind() classify.Source {
	kind, err := classify.ParseSource(f.cfg.Kind)
	if err != nil || (kind == classify.SourceGenres && f.genres == nil) {
		return classify.SourceTags
	}
	return kind
}

var _ chart.Fetcher = (*Fetcher)(nil)

type windowResult struct {
	artists []music.RawArtist
	err     error
}

// Fetch collects the listener's top artists per window and top tracks, then
// fills in artist tags and listener counts. A failing call degrades to an
// empty list; only when every call fails is an error returned.
func (f *Fetcher) Fetch(ctx context.Context, listener string) (chart.Inputs, error) {
	log := logging.Ctx(ctx)
	windows := append(append([]music.Window{}, f.cfg.Primary...), f.cfg.Secondary...)
	results := make([]windowResult, len(windows))

	var tracks []music.Track
	var tracksErr error

	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			artists, err := f.provider.TopArtists(ctx, listener, w, f.cfg.Limit)
			if err != nil {
				err = &FetchError{Call: "top artists", Listener: listener, Window: w, Err: err}
			}
			results[i] = windowResult{artists: artists, err: err}
		}()
	}
	if f.cfg.TrackWindow != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracks, tracksErr = f.provider.TopTracks(ctx, listener, f.cfg.TrackWindow, f.cfg.Limit)
			if tracksErr != nil {
				tracksErr = &FetchError{Call: "top tracks", Listener: listener, Window: f.cfg.TrackWindow, Err: tracksErr}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return chart.Inputs{}, err
	}

	var errs []error
	var primary, secondary [][]music.RawArtist
	for i, r := range results {
		if r.err != nil {
			log.Warn().Err(r.err).Msg("window fetch failed")
			errs = append(errs, r.err)
			continue
		}
		if i < len(f.cfg.Primary) {
			primary = append(primary, r.artists)
		} else {
			secondary = append(secondary, r.artists)
		}
	}
	calls := len(windows)
	if f.cfg.TrackWindow != "" {
		calls++
		if tracksErr != nil {
			log.Warn().Err(tracksErr).Msg("track fetch failed")
			errs = append(errs, tracksErr)
		}
	}
	if len(errs) == calls {
		return chart.Inputs{}, fmt.Errorf("%w: %w", ErrNoData, errors.Join(errs...))
	}

	in := chart.Inputs{
		Listener:  listener,
		Kind:      f.kind(),
		Primary:   flatten(primary),
		Secondary: flatten(secondary),
		Tracks:    tracks,
	}
	if err := f.enrich(ctx, &in); err != nil {
		return chart.Inputs{}, err
	}

	log.Debug().
		Int("primary", len(in.Primary)).
		Int("secondary", len(in.Secondary)).
		Int("tracks", len(in.Tracks)).
		Int("failed_calls", len(errs)).
		Msg("listening data fetched")
	return in, nil
}

// flatten concatenates window lists keeping the first occurrence of each
// artist name.
func flatten(lists [][]music.RawArtist) []music.RawArtist {
	seen := make(map[string]bool)
	var out []music.RawArtist
	for _, list := range lists {
		for _, a := range list {
			k := cacheKey(a.Name)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, a)
		}
	}
	return out
}

const genreKeyPrefix = "genres:"

type details struct {
	tags      []string
	listeners int64
}

// enrich looks up every distinct artist once and copies the result onto all
// occurrences.
func (f *Fetcher) enrich(ctx context.Context, in *chart.Inputs) error {
	var names []music.RawArtist
	seen := make(map[string]bool)
	add := func(a music.RawArtist) {
		k := cacheKey(a.Name)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		names = append(names, a)
	}
	for _, a := range in.Primary {
		add(a)
	}
	for _, a := range in.Secondary {
		add(a)
	}
	for _, t := range in.Tracks {
		add(t.Artist)
	}

	kind := in.Kind
	found := make([]details, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = f.lookup(gctx, name, kind)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byKey := make(map[string]details, len(names))
	for i, a := range names {
		byKey[cacheKey(a.Name)] = found[i]
	}
	apply := func(a *music.RawArtist) {
		d := byKey[cacheKey(a.Name)]
		if len(a.Tags) == 0 {
			a.Tags = d.tags
		}
		if a.Followers == 0 {
			a.Followers = d.listeners
		}
	}
	for i := range in.Primary {
		apply(&in.Primary[i])
	}
	for i := range in.Secondary {
		apply(&in.Secondary[i])
	}
	for i := range in.Tracks {
		apply(&in.Tracks[i].Artist)
	}
	return nil
}

// lookup resolves one artist from the cache, then the provider. Failures
// leave the artist without tags.
func (f *Fetcher) lookup(ctx context.Context, a music.RawArtist, kind classify.Source) details {
	name := a.Name
	log := logging.Ctx(ctx).With().Str("artist", name).Str("kind", string(kind)).Logger()
	var d details

	// genres share the tag table under their own key
	key := name
	if kind == classify.SourceGenres {
		key = genreKeyPrefix + name
	}
	tags, ok := f.cachedTags(key)
	if !ok {
		var err error
		if kind == classify.SourceGenres {
			tags, err = f.genres.ArtistGenres(ctx, name, a.ExternalID)
		} else {
			tags, err = f.provider.ArtistTags(ctx, name)
		}
		if err != nil {
			log.Warn().Err(err).Msg("tag lookup failed")
		} else if f.cache != nil {
			if err := f.cache.SetTags(key, tags); err != nil {
				log.Warn().Err(err).Msg("tag cache write failed")
			}
		}
	}
	d.tags = tags

	if !f.cfg.Listeners {
		return d
	}
	listeners, ok := f.cachedListeners(name)
	if !ok {
		var err error
		listeners, err = f.provider.ArtistListeners(ctx, name)
		if err != nil {
			log.Warn().Err(err).Msg("listener lookup failed")
			return d
		}
		if f.cache != nil {
			if err := f.cache.SetListeners(name, listeners); err != nil {
				log.Warn().Err(err).Msg("listener cache write failed")
			}
		}
	}
	d.listeners = listeners
	return d
}

func (f *Fetcher) cachedTags(name string) ([]string, bool) {
	if f.cache == nil {
		return nil, false
	}
	tags, ok, err := f.cache.GetTags(name)
	if err != nil {
		logging.Warn().Err(err).Str("artist", name).Msg("tag cache read failed")
		return nil, false
	}
	return tags, ok
}

func (f *Fetcher) cachedListeners(name string) (int64, bool) {
	if f.cache == nil {
		return 0, false
	}
	n, ok, err := f.cache.GetListeners(name)
	if err != nil {
		logging.Warn().Err(err).Str("artist", name).Msg("listener cache read failed")
		return 0, false
	}
	return n, ok
}

// Listeners splits a comma separated listener list, dropping blanks and
// duplicates.
func Listeners(csv string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, l := range strings.Split(csv, ",") {
		l = strings.TrimSpace(l)
		if l == "" || seen[strings.ToLower(l)] {
			continue
		}
		seen[strings.ToLower(l)] = true
		out = append(out, l)
	}
	return out
}

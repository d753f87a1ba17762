package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/llehouerou/starchart/internal/chart"
	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/errmsg"
	"github.com/llehouerou/starchart/internal/lastfm"
	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/metrics"
	"github.com/llehouerou/starchart/internal/musicbrainz"
	"github.com/llehouerou/starchart/internal/render"
	"github.com/llehouerou/starchart/internal/source"
	"github.com/llehouerou/starchart/internal/state"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// authTimeout bounds the wait for the browser authorization.
const authTimeout = 5 * time.Minute

var errNoLastfm = errors.New("last.fm is not configured: set lastfm.api_key and lastfm.api_secret")

func runChart(ctx context.Context, a *App, args []string) error {
	fs := a.newFlags("chart", "")
	file := fs.String("file", "", "read listening data from a JSON file")
	user := fs.String("user", "", "Last.fm user (default: configured username)")
	asJSON := fs.Bool("json", false, "print the chart as JSON")
	save := fs.Bool("save", false, "store the chart")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var fetcher chart.Fetcher
	listener := *user
	var st *state.Manager

	if *save || *file == "" {
		var err error
		if st, err = a.openState(); err != nil {
			return errors.New(errmsg.Format(errmsg.OpInitialize, err))
		}
		defer st.Close()
	}

	if *file != "" {
		in, err := source.LoadFile(*file)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpInputsLoad, *file, err))
		}
		if listener == "" {
			listener = in.Listener
		}
		if listener == "" {
			listener = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
		}
		fetcher = source.Static(in)
	} else {
		var err error
		if listener == "" {
			listener = a.defaultListener(st)
		}
		if listener == "" {
			fs.Usage()
			return errUsage
		}
		if fetcher, err = a.lastfmFetcher(st); err != nil {
			return err
		}
	}

	pipeline := chart.NewPipeline(a.tax, a.positions, a.cfg.ChartOptions())
	var c *chart.Chart
	var err error
	if *save {
		c, err = chart.NewService(fetcher, pipeline, st).Refresh(ctx, listener)
	} else {
		c, err = compute(ctx, fetcher, pipeline, listener)
	}
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpChartCompute, listener, err))
	}

	return a.printChart(c, *asJSON)
}

func compute(ctx context.Context, f chart.Fetcher, p *chart.Pipeline, listener string) (*chart.Chart, error) {
	ctx = logging.ContextWithRun(ctx, listener, logging.NewRunID())
	in, err := f.Fetch(ctx, listener)
	if err != nil {
		return nil, err
	}
	if in.Listener == "" {
		in.Listener = listener
	}
	return p.Compute(ctx, in)
}

func (a *App) printChart(c *chart.Chart, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}
	fmt.Fprintln(a.stdout, render.New(a.positions).Chart(c))
	return nil
}

// defaultListener is the configured username, else the most recently
// linked account.
func (a *App) defaultListener(st *state.Manager) string {
	if a.cfg.Lastfm.Username != "" {
		return a.cfg.Lastfm.Username
	}
	if linked := linkedListeners(st); len(linked) > 0 {
		return linked[0]
	}
	return ""
}

func linkedListeners(st *state.Manager) []string {
	if st == nil {
		return nil
	}
	accounts, err := st.Accounts()
	if err != nil {
		logging.Warn().Err(err).Msg("could not read linked accounts")
		return nil
	}
	names := make([]string, len(accounts))
	for i, acct := range accounts {
		names[i] = acct.Username
	}
	return names
}

// lastfmClient builds a client, authenticated as the default listener when
// that account is linked.
func (a *App) lastfmClient(st *state.Manager) (*lastfm.Client, error) {
	if !a.cfg.HasLastfmConfig() {
		return nil, errNoLastfm
	}
	client := lastfm.NewWithLimits(a.cfg.Lastfm.APIKey, a.cfg.Lastfm.APISecret, a.cfg.Source.Limits)
	if st == nil {
		return client, nil
	}
	if acct, err := st.Account(a.defaultListener(st)); err == nil && acct != nil {
		client.SetSessionKey(acct.SessionKey)
	}
	return client, nil
}

func (a *App) lastfmFetcher(st *state.Manager) (*source.Fetcher, error) {
	client, err := a.lastfmClient(st)
	if err != nil {
		return nil, err
	}
	cache := source.NewTagCache(st.DB(), a.cfg.GetCacheTTLDays())
	f := source.NewFetcher(client, cache, a.cfg.Source.Fetch)
	if a.cfg.Source.Fetch.Kind == string(classify.SourceGenres) {
		f.WithGenres(musicbrainz.NewClient())
	}
	return f, nil
}

func runRefresh(ctx context.Context, a *App, args []string) error {
	fs := a.newFlags("refresh", "")
	users := fs.String("users", "", "comma separated listeners (default: configured listeners)")
	workers := fs.Int("workers", a.cfg.GetChartWorkers(), "concurrent listeners")
	every := fs.Duration("every", 0, "repeat at this interval until interrupted")
	metricsAddr := fs.String("metrics-addr", a.cfg.Metrics.Addr, "serve Prometheus metrics on this address")
	dir := fs.String("dir", "", "read <listener>.json inputs from this directory instead of Last.fm")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.openState()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer st.Close()

	listeners := source.Listeners(*users)
	var files *source.FileFetcher
	if *dir != "" {
		files = source.NewFileFetcher(*dir)
		if len(listeners) == 0 {
			if listeners, err = files.Listeners(); err != nil {
				return errors.New(errmsg.Format(errmsg.OpInputsLoad, err))
			}
		}
	}
	if len(listeners) == 0 {
		listeners = a.cfg.ListenersOrDefault()
	}
	if len(listeners) == 0 {
		listeners = linkedListeners(st)
	}
	if len(listeners) == 0 {
		fs.Usage()
		return errUsage
	}

	var fetcher chart.Fetcher = files
	if files == nil {
		if fetcher, err = a.lastfmFetcher(st); err != nil {
			return err
		}
	}
	svc := chart.NewService(fetcher, chart.NewPipeline(a.tax, a.positions, a.cfg.ChartOptions()), st)

	if *metricsAddr != "" {
		stop, err := serveMetrics(*metricsAddr)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpMetricsServe, err))
		}
		defer stop()
	}

	cache := source.NewTagCache(st.DB(), a.cfg.GetCacheTTLDays())
	for {
		if n, err := cache.CleanExpired(); err != nil {
			logging.Warn().Err(err).Msg("cache cleanup failed")
		} else if n > 0 {
			logging.Debug().Int64("rows", n).Msg("expired cache entries removed")
		}

		ok := a.reportResults(svc.RefreshAll(ctx, listeners, *workers))
		if *every <= 0 {
			if ok == 0 {
				return errors.New("no chart refreshed")
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(*every):
		}
	}
}

// reportResults prints one line per listener and returns the successes.
func (a *App) reportResults(results []chart.Result) int {
	ok := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(a.stdout, errmsg.FormatWith(errmsg.OpChartRefresh, r.Listener, r.Err))
			continue
		}
		ok++
		fmt.Fprintf(a.stdout, "%s: %d positions, sign %s\n", r.Listener, r.Chart.Filled(), r.Chart.Profile.Sign)
	}
	return ok
}

// serveMetrics serves /metrics on addr until the returned stop is called.
func serveMetrics(addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		_ = server.Serve(ln)
		close(done)
	}()
	logging.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		<-done
	}, nil
}

func runShow(_ context.Context, a *App, args []string) error {
	fs := a.newFlags("show", "[listener]")
	asJSON := fs.Bool("json", false, "print the chart as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.openState()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer st.Close()

	if fs.NArg() == 0 {
		list, err := st.ListCharts()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpChartList, err))
		}
		fmt.Fprintln(a.stdout, render.New(a.positions).Summaries(list))
		return nil
	}

	listener := fs.Arg(0)
	rec, err := st.GetChart(listener)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpChartLoad, listener, err))
	}
	if rec == nil {
		return fmt.Errorf("no chart stored for %s", listener)
	}
	c, err := chart.Decode(rec)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpChartLoad, listener, err))
	}
	return a.printChart(c, *asJSON)
}

func runForget(_ context.Context, a *App, args []string) error {
	fs := a.newFlags("forget", "<listener>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	st, err := a.openState()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer st.Close()

	if err := st.DeleteChart(fs.Arg(0)); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpChartDelete, fs.Arg(0), err))
	}
	fmt.Fprintf(a.stdout, "forgot %s\n", fs.Arg(0))
	return nil
}

func runAuth(ctx context.Context, a *App, args []string) error {
	fs := a.newFlags("auth", "")
	unlink := fs.String("unlink", "", "remove the linked account `name`")
	list := fs.Bool("list", false, "list linked accounts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := a.openState()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer st.Close()

	switch {
	case *unlink != "":
		removed, err := st.UnlinkAccount(*unlink)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
		}
		if !removed {
			return fmt.Errorf("no linked account %s", *unlink)
		}
		fmt.Fprintf(a.stdout, "unlinked %s\n", *unlink)
		return nil
	case *list:
		accounts, err := st.Accounts()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
		}
		if len(accounts) == 0 {
			fmt.Fprintln(a.stdout, "No linked accounts.")
		}
		for _, acct := range accounts {
			fmt.Fprintf(a.stdout, "%s  linked %s\n", acct.Username, humanize.Time(acct.LinkedAt))
		}
		return nil
	}

	client, err := a.lastfmClient(nil)
	if err != nil {
		return err
	}
	token, err := client.GetToken(ctx)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}

	tokens := make(chan string, 2)
	callback := ""
	if server, err := lastfm.ListenCallback(a.cfg.Lastfm.CallbackAddr); err == nil {
		defer server.Close()
		callback = server.URL()
		go func() {
			select {
			case t := <-server.Tokens():
				tokens <- t
			case <-ctx.Done():
			}
		}()
	} else {
		logging.Debug().Err(err).Msg("auth callback server unavailable")
	}
	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := a.stdin.Read(buf); err != nil || buf[0] == '\n' {
				tokens <- token
				return
			}
		}
	}()

	authURL := client.GetAuthURL(token, callback)
	fmt.Fprintf(a.stdout, "Authorize starchart on Last.fm:\n  %s\nthen press Enter.\n", authURL)
	if err := lastfm.OpenBrowser(authURL); err != nil {
		logging.Debug().Err(err).Msg("could not open browser")
	}

	authorized := lastfm.WaitForToken(ctx, tokens, authTimeout)
	if authorized == "" {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, errors.New("no authorization received")))
	}

	username, sessionKey, err := client.GetSession(ctx, authorized)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}
	if err := st.LinkAccount(username, sessionKey); err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}
	fmt.Fprintf(a.stdout, "Linked Last.fm account %s\n", username)
	return nil
}

func runValidate(_ context.Context, a *App, args []string) error {
	fs := a.newFlags("validate", "[inputs.json ...]")
	if err := fs.Parse(args); err != nil {
		return err
	}

	origin := func(path string) string {
		if path == "" {
			return "built-in"
		}
		return path
	}
	fmt.Fprintf(a.stdout, "taxonomy: %d genres (%s)\n", len(a.tax.Genres()), origin(a.cfg.TaxonomyFile))
	fmt.Fprintf(a.stdout, "positions: %d (%s)\n", len(a.positions), origin(a.cfg.PositionsFile))

	covered := make(map[taxonomy.Genre]bool)
	for _, p := range a.positions {
		for _, g := range p.Affinities {
			covered[g] = true
		}
	}
	for _, g := range a.tax.Genres() {
		if !covered[g] {
			fmt.Fprintf(a.stdout, "note: no position favors %s\n", g)
		}
	}

	var failed int
	for _, path := range fs.Args() {
		in, err := source.LoadFile(path)
		if err != nil {
			failed++
			fmt.Fprintln(a.stdout, errmsg.FormatWith(errmsg.OpInputsLoad, path, err))
			continue
		}
		fmt.Fprintf(a.stdout, "%s: %d primary, %d secondary artists, %d tracks (%s)\n",
			path, len(in.Primary), len(in.Secondary), len(in.Tracks), in.Kind)
	}
	if failed > 0 {
		return fmt.Errorf("%d input files invalid", failed)
	}
	return nil
}

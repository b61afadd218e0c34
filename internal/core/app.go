package core

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/config"
	"github.com/fsclient/fsclient-go/internal/jobs"
	"github.com/fsclient/fsclient-go/internal/mirror"
	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
	"github.com/fsclient/fsclient-go/internal/playerjs"
	"github.com/fsclient/fsclient-go/internal/providers"
	"github.com/fsclient/fsclient-go/internal/providers/exfs"
	"github.com/fsclient/fsclient-go/internal/providers/nekomori"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	cfg        *config.Config
	client     *network.Client
	player     *playerjs.Resolver
	resolvers  map[string]*mirror.Resolver
	jobManager *jobs.JobManager
	Version    string
}

// New sets up and returns a new App instance. It loads the
// configuration, builds the shared HTTP client and mirror resolvers,
// and registers the provider sets.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:       cfg,
		client:    network.New(cfg.HTTPTimeout()),
		resolvers: make(map[string]*mirror.Resolver),
	}
	if cfg.HTTP.UserAgent != "" {
		app.client.SetUserAgent(cfg.HTTP.UserAgent)
	}
	app.player = playerjs.NewResolver(app.client, cfg.Player.Hosts...)

	for _, siteID := range []string{exfs.SiteID, nekomori.SiteID} {
		resolver, err := app.buildResolver(siteID)
		if err != nil {
			return nil, err
		}
		app.resolvers[siteID] = resolver
	}

	providers.Register(exfs.NewSet(app.client, app.resolvers[exfs.SiteID], app.player, cfg.Sites[exfs.SiteID].RateLimit))
	providers.Register(nekomori.NewSet(app.client, app.resolvers[nekomori.SiteID], app.player, cfg.Sites[nekomori.SiteID].RateLimit))

	app.jobManager = jobs.NewManager(app)
	jobs.RegisterJobs(app.jobManager)

	logrus.Info("Core application setup complete.")
	return app, nil
}

// buildResolver makes a mirror resolver from the site's config block.
// A site without configured mirrors is a setup error.
func (a *App) buildResolver(siteID string) (*mirror.Resolver, error) {
	sc, ok := a.cfg.Sites[siteID]
	if !ok || len(sc.Mirrors) == 0 {
		return nil, fmt.Errorf("no mirrors configured for site %q", siteID)
	}
	candidates := make([]*url.URL, 0, len(sc.Mirrors))
	for _, m := range sc.Mirrors {
		u, err := url.Parse(m)
		if err != nil {
			return nil, fmt.Errorf("invalid mirror %q for site %q: %w", m, siteID, err)
		}
		candidates = append(candidates, u)
	}
	healthPath := sc.HealthPath
	if healthPath == "" {
		healthPath = "/"
	}
	return mirror.New(models.NewSite(siteID), a.client, candidates, healthPath), nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Client returns the shared HTTP client.
func (a *App) Client() *network.Client { return a.client }

// Player returns the shared frame resolver.
func (a *App) Player() *playerjs.Resolver { return a.player }

// Resolvers returns the per-site mirror resolvers.
func (a *App) Resolvers() map[string]*mirror.Resolver { return a.resolvers }

// JobManager returns the background job manager.
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// InvalidateMirrors drops every cached mirror. The config watcher
// calls this after a reload so changed mirror lists take effect.
func (a *App) InvalidateMirrors() {
	for _, r := range a.resolvers {
		r.Invalidate()
	}
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"miscrits-atlas/internal/domain/backend"
	"miscrits-atlas/internal/domain/catalog"
	"miscrits-atlas/internal/domain/marker"
	"miscrits-atlas/internal/domain/player"
	sessionstore "miscrits-atlas/internal/domain/session/store"
	platformconfig "miscrits-atlas/internal/platform/config"
	platformerrors "miscrits-atlas/internal/platform/errors"
	platformlogging "miscrits-atlas/internal/platform/logging"
	platformstorage "miscrits-atlas/internal/platform/storage"
	httptransport "miscrits-atlas/internal/transport/http"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	db         *gorm.DB
	sessions   sessionstore.Store
	client     *backend.Client
	cache      player.Cache
	gateway    *player.Gateway
	markers    *marker.Store
	catalog    *catalog.Catalog
	adminAuth  *httptransport.AdminAuth
}

// Run drives the whole service lifecycle: configuration, dependency
// initialisation, HTTP serving and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	if state.sessions == nil || state.gateway == nil || state.markers == nil || state.catalog == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"core services not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	defer func() {
		teardownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if state.cache != nil {
			if err := state.cache.Close(teardownCtx); err != nil {
				logger.WarnTag("BOOT", "player cache did not close cleanly: %v", err)
			}
		}
		if err := state.sessions.Close(teardownCtx); err != nil {
			logger.WarnTag("BOOT", "session store did not close cleanly: %v", err)
		}
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return fmt.Errorf("start http server: %w", err)
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("BOOT", "service stopped")
	logger.Close()
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	logger.InfoTag("BOOT", "initialisation order")
	for _, step := range steps {
		logger.InfoTag("BOOT", "  %s", step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:open-database",
			Title:     "Open local database",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   openDatabaseStep,
		},
		{
			ID:        "session:init-store",
			Title:     "Initialise session store",
			DependsOn: []string{"storage:open-database"},
			Kind:      platformerrors.KindSession,
			Execute:   initSessionStoreStep,
		},
		{
			ID:        "catalog:load",
			Title:     "Load species catalog",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindCatalog,
			Execute:   loadCatalogStep,
		},
		{
			ID:        "backend:init-client",
			Title:     "Initialise game backend client",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBackend,
			Execute:   initBackendClientStep,
		},
		{
			ID:        "player:init-gateway",
			Title:     "Initialise player gateway",
			DependsOn: []string{"backend:init-client", "logging:init"},
			Kind:      platformerrors.KindPlayer,
			Execute:   initPlayerGatewayStep,
		},
		{
			ID:        "marker:init-store",
			Title:     "Initialise marker store",
			DependsOn: []string{"storage:open-database"},
			Kind:      platformerrors.KindMarker,
			Execute:   initMarkerStoreStep,
		},
		{
			ID:        "admin:init-auth",
			Title:     "Initialise admin authentication",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindTransport,
			Execute:   initAdminAuthStep,
		},
	}
}

func loadConfigStep(ctx context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(ctx context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	if state.configPath != "" {
		logger.InfoTag("BOOT", "configuration loaded from %s", state.configPath)
	} else {
		logger.InfoTag("BOOT", "no config file found, running on defaults")
	}
	return nil
}

func openDatabaseStep(ctx context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Storage.DataDir, state.config.Storage.DBFile)
	if err != nil {
		return err
	}
	state.db = db
	return nil
}

func initSessionStoreStep(ctx context.Context, state *appState) error {
	cfg := state.config.Session.Store
	sessions, err := sessionstore.New(sessionstore.Config{
		Driver: cfg.Type,
		TTL:    cfg.TTL,
		Redis: &sessionstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
		Memory: &sessionstore.MemoryConfig{GCInterval: cfg.Cleanup},
	}, sessionstore.Dependencies{SQLiteDB: state.db})
	if err != nil {
		return err
	}
	state.sessions = sessions
	state.logger.InfoTag("SESSION", "session store ready (driver=%s)", driverName(cfg.Type))
	return nil
}

func loadCatalogStep(ctx context.Context, state *appState) error {
	cfg := state.config.Catalog
	species, err := catalog.Load(ctx, catalog.LoaderConfig{
		URL:     cfg.URL,
		File:    cfg.File,
		Timeout: state.config.Backend.Timeout,
	})
	if err != nil {
		return err
	}
	state.catalog = catalog.New(species, catalog.Options{
		AssetCDN: cfg.AssetCDN,
		SiteURL:  cfg.SiteURL,
	})
	state.logger.InfoTag("CATALOG", "loaded %d species across %d locations",
		len(species), len(state.catalog.Locations()))
	return nil
}

func initBackendClientStep(ctx context.Context, state *appState) error {
	cfg := state.config.Backend
	client, err := backend.NewClient(backend.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		UseSSL:    cfg.UseSSL,
		ServerKey: cfg.ServerKey,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return err
	}
	state.client = client
	return nil
}

func initPlayerGatewayStep(ctx context.Context, state *appState) error {
	cfg := state.config.Player.Cache
	cache, err := player.NewCache(player.CacheConfig{
		Driver:    cfg.Type,
		Staleness: cfg.Staleness,
		Redis: &player.RedisCacheConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
	})
	if err != nil {
		return err
	}
	state.cache = cache
	state.gateway = player.NewGateway(state.client, cache, state.logger)
	state.logger.InfoTag("PLAYER", "player gateway ready (cache=%s)", driverName(cfg.Type))
	return nil
}

func initMarkerStoreStep(ctx context.Context, state *appState) error {
	markers, err := marker.NewStore(state.db)
	if err != nil {
		return err
	}
	state.markers = markers
	return nil
}

// Admin credentials are optional. Without them the marker API stays
// read-only and mutation routes are not registered at all.
func initAdminAuthStep(ctx context.Context, state *appState) error {
	cfg := state.config.Admin
	if cfg.Password == "" || cfg.JWTSecret == "" {
		state.logger.WarnTag("ADMIN", "admin credentials not configured, marker editing disabled")
		return nil
	}
	auth, err := httptransport.NewAdminAuth(cfg)
	if err != nil {
		return err
	}
	state.adminAuth = auth
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	config := state.config
	logger := state.logger

	var authMiddleware gin.HandlerFunc
	if state.adminAuth != nil {
		authMiddleware = state.adminAuth.Middleware()
	}

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config:         config,
		Logger:         logger,
		AuthMiddleware: authMiddleware,
		StaticRoot:     config.Server.StaticDir,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine
	apiGroup := httpRouter.API

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			c.JSON(http.StatusNotFound, httptransport.APIResponse{
				Success: false,
				Data:    gin.H{},
				Message: "api not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.File(config.Server.StaticDir + "/index.html")
	})

	sessionService := httptransport.NewSessionService(
		state.client, state.sessions, config.Session.Store.TTL, logger)
	catalogService := httptransport.NewCatalogService(
		state.catalog, state.gateway, state.sessions, logger)
	playerService := httptransport.NewPlayerService(
		state.gateway, state.catalog, state.sessions, logger)
	markerService := httptransport.NewMarkerService(state.markers, state.adminAuth, logger)

	if err := sessionService.Start(groupCtx, router, apiGroup); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "session:start-service", "failed to start session service", err)
	}
	if err := catalogService.Start(groupCtx, router, apiGroup); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "catalog:start-service", "failed to start catalog service", err)
	}
	if err := playerService.Start(groupCtx, router, apiGroup); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "player:start-service", "failed to start player service", err)
	}
	if err := markerService.Start(groupCtx, router, apiGroup, httpRouter.Secured); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "marker:start-service", "failed to start marker service", err)
	}

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "listening on http://%s:%d", config.Server.IP, config.Server.Port)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "http shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "http server stopped cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "http server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("BOOT", "shutdown signal received (%v), cleaning up", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("BOOT", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("BOOT", "all services stopped")
	case <-time.After(15 * time.Second):
		timeoutErr := errors.New("shutdown timed out")
		logger.ErrorTag("BOOT", "shutdown timed out, exiting anyway")
		return timeoutErr
	}
	return nil
}

func driverName(name string) string {
	if name == "" {
		return "memory"
	}
	return name
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	supa "github.com/supabase-community/supabase-go"
	"golang.org/x/sync/errgroup"

	"github.com/dahroug-h/EECE27team/internal/application/identity"
	"github.com/dahroug-h/EECE27team/internal/application/ledger"
	"github.com/dahroug-h/EECE27team/internal/application/ports"
	"github.com/dahroug-h/EECE27team/internal/application/project"
	"github.com/dahroug-h/EECE27team/internal/config"
	infraauth "github.com/dahroug-h/EECE27team/internal/infrastructure/auth"
	httprouter "github.com/dahroug-h/EECE27team/internal/infrastructure/http"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/handlers"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/http/middleware"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/memory"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/migrations"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/postgres"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/persistence/supabase"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/queue"
	"github.com/dahroug-h/EECE27team/internal/infrastructure/webhook"
)

const apiVersion = "1"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the event worker when Redis is configured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if cfg.Store.MigrateOnStart {
			m, err := migrations.New(cfg.Store.DatabaseURL, log)
			if err != nil {
				return nil, nil, err
			}
			err = m.Up()
			m.Close()
			if err != nil {
				return nil, nil, err
			}
		}
		pool, err := postgres.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(pool), pool.Close, nil
	case config.DriverSupabase:
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		if err != nil {
			return nil, nil, err
		}
		return supabase.NewStore(client), func() {}, nil
	default:
		log.Warn().Msg("using the in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}
}

// eventPipeline picks the publisher: asynq when Redis is configured, a direct webhook call when
// only a webhook is, otherwise nothing.
func eventPipeline(cfg *config.Config, log zerolog.Logger) (ports.EventPublisher, *queue.Worker, *redis.Client, func(), error) {
	var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
	if cfg.Events.WebhookURL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Events.WebhookURL, webhook.WithSecret(cfg.Events.WebhookSecret))
	}
	if cfg.Events.RedisURL == "" {
		if cfg.Events.WebhookURL != "" {
			return queue.NewDirectPublisher(emitter), nil, nil, func() {}, nil
		}
		return queue.NewNoopPublisher(), nil, nil, func() {}, nil
	}
	opt, err := redis.ParseURL(cfg.Events.RedisURL)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	redisClient := redis.NewClient(opt)
	asynqOpt, err := queue.RedisOpt(cfg.Events.RedisURL)
	if err != nil {
		_ = redisClient.Close()
		return nil, nil, nil, nil, err
	}
	publisher := queue.NewAsynqPublisher(asynqOpt, log)
	worker := queue.NewWorker(asynqOpt, emitter, log)
	closeAll := func() {
		_ = publisher.Close()
		_ = redisClient.Close()
	}
	return publisher, worker, redisClient, closeAll, nil
}

func principalResolver(cfg *config.Config, issuer *infraauth.TokenIssuer) (ports.PrincipalResolver, error) {
	chain := infraauth.Chain{issuer}
	if cfg.Supabase.URL == "" {
		return chain, nil
	}
	var remote infraauth.RemoteUserFunc
	key := cfg.Supabase.AnonKey
	if key == "" {
		key = cfg.Supabase.ServiceKey
	}
	if key != "" {
		client, err := supa.NewClient(cfg.Supabase.URL, key, nil)
		if err != nil {
			return nil, err
		}
		remote = infraauth.SupabaseRemoteUser(client)
	}
	if remote == nil && cfg.Supabase.JWTSecret == "" {
		return chain, nil
	}
	return append(chain, infraauth.NewSupabaseVerifier(cfg.Supabase.JWTSecret, remote)), nil
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, worker, redisClient, closeEvents, err := eventPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer closeEvents()

	privateKey, ephemeral, err := infraauth.LoadSigningKey(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return err
	}
	if ephemeral {
		log.Warn().Msg("JWT_PRIVATE_KEY_PATH not set; tokens issued now will not survive a restart")
	}
	issuer := infraauth.NewTokenIssuer(privateKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	resolver, err := principalResolver(cfg, issuer)
	if err != nil {
		return err
	}

	gate := identity.NewGate(store.Profiles())
	getProfile := identity.NewGetProfile(store.Profiles())
	getProject := project.NewGetProject(store.Projects())

	var (
		oauthHandler *handlers.OAuthHandler
		sessionToken middleware.TokenSource
	)
	if cfg.OAuth.GoogleEnabled() {
		handlers.InitOAuthProviders(cfg.OAuth.CallbackBaseURL, cfg.OAuth.SessionSecret,
			cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, !cfg.Server.SecureDev)
		sessions := handlers.NewSessions([]byte(cfg.OAuth.SessionSecret), !cfg.Server.SecureDev, int(cfg.JWT.AccessExpiry))
		oauthHandler = handlers.NewOAuthHandler(issuer, cfg.JWT.AccessExpiry, sessions, getProfile, log)
		sessionToken = sessions.Token
	}

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP)
	if err != nil {
		return err
	}
	principalLimit, err := middleware.NewPrincipalRateLimiter(cfg.RateLimit.PerPrincipal)
	if err != nil {
		return err
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		HealthHandler:  handlers.NewHealthHandler(store.Ping, redisClient),
		ProfileHandler: handlers.NewProfileHandler(identity.NewCreateProfile(store.Profiles(), log), getProfile, log),
		ProjectsHandler: handlers.NewProjectsHandler(
			getProject,
			project.NewListProjects(store.Projects()),
			project.NewCreateProject(store, gate, publisher, log),
			project.NewDeleteProject(store, publisher, log),
			ledger.NewApplicantCount(store.Applications()),
			log,
		),
		ApplicationsHandler: handlers.NewApplicationsHandler(
			getProject,
			gate,
			ledger.NewApply(store, gate, publisher, log),
			ledger.NewWithdraw(store, gate, publisher, log),
			ledger.NewListApplicants(store.Applications(), gate),
			ledger.NewGetUserApplication(store.Applications()),
			log,
		),
		OAuthHandler:       oauthHandler,
		Authenticator:      middleware.NewAuthenticator(resolver, sessionToken),
		Log:                log,
		Secure:             middleware.NewSecure(middleware.SecureOptions(cfg.Server.SecureDev)),
		CORS:               middleware.CORS(cfg.Server.CORSAllowedOrigins),
		IPRateLimit:        ipLimit,
		PrincipalRateLimit: principalLimit,
		APIVersion:         apiVersion,
		Metrics:            true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if worker != nil {
		if err := worker.Start(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if worker != nil {
			worker.Shutdown()
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

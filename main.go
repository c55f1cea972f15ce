// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/broker"
	"kabaddi-scoreboard/config"
	"kabaddi-scoreboard/controllers"
	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/metrics"
	"kabaddi-scoreboard/middleware"
	"kabaddi-scoreboard/services"
	"kabaddi-scoreboard/store"
	"kabaddi-scoreboard/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error.Printf("main: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		return err
	}
	logger.SetLogLevel(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn.Printf("main: closing store: %v", err)
		}
	}()
	logger.Info.Printf("main: %s store at %s", cfg.StoreDriver, cfg.StorePath)

	recorder := newRecorder(cfg)

	hub := websocket.NewHub(
		websocket.WithRecorder(recorder),
		websocket.WithAllowedOrigins(cfg.CORSAllowedOrigins),
	)
	go hub.Run(ctx)

	var invalidator services.Invalidator = hub
	if cfg.NATSURL != "" {
		relay, err := broker.Connect(cfg.NATSURL, cfg.NATSSubject, hub)
		if err != nil {
			return err
		}
		defer func() {
			if err := relay.Close(); err != nil {
				logger.Warn.Printf("main: closing NATS relay: %v", err)
			}
		}()
		invalidator = relay
	}

	svc := services.NewScoreboardService(st,
		services.WithInvalidator(invalidator),
		services.WithMetrics(recorder),
	)

	if cfg.SeedFile != "" {
		if err := seed(ctx, svc, cfg.SeedFile); err != nil {
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, svc, hub)

	var handler http.Handler = router
	if cfg.XRayEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer(cfg.XRaySegment), router)
		logger.Info.Printf("main: X-Ray tracing enabled as %s", cfg.XRaySegment)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("main: listening on %s (%s)", cfg.Addr(), cfg.ApplicationURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info.Println("main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRecorder(cfg *config.Config) metrics.Recorder {
	if !cfg.MetricsEnabled {
		return metrics.Noop{}
	}
	cw, err := metrics.NewCloudWatchFromEnv(cfg.MetricsNamespace)
	if err != nil {
		logger.Warn.Printf("main: CloudWatch unavailable, metrics disabled: %v", err)
		return metrics.Noop{}
	}
	logger.Info.Printf("main: publishing metrics to CloudWatch namespace %s", cfg.MetricsNamespace)
	return cw
}

func seed(ctx context.Context, svc *services.ScoreboardService, path string) error {
	file, err := services.LoadSeedFile(path)
	if err != nil {
		return err
	}
	n, err := svc.Seed(ctx, file)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info.Printf("main: seeded %d competitions from %s", n, path)
	}
	return nil
}

// setupRouter registers middleware, templates and every route.
func setupRouter(cfg *config.Config, svc services.ScoreboardServiceInterface, hub *websocket.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.FrameAncestors(cfg.FrameAncestors))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("scoreboard", sessionStore))

	router.SetFuncMap(controllers.TemplateFuncs())
	router.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	router.Static("/static", cfg.StaticDir)

	router.GET("/health", controllers.Health)

	pages := &controllers.PageController{Service: svc, RecentLimit: cfg.RecentCompetitions}
	competitions := &controllers.CompetitionController{Service: svc, Hub: hub}
	matches := &controllers.MatchController{Service: svc, Hub: hub, ApplicationURL: cfg.ApplicationURL}

	router.GET("/", pages.Index)
	router.GET("/competitions", pages.Competitions)
	router.POST("/competitions", competitions.Create)

	router.GET("/competition/:id", competitions.Show)
	router.POST("/competition/:id/matches", competitions.CreateMatch)
	router.GET("/competition/:id/live", competitions.Live)

	router.GET("/match/:id", matches.Show)
	router.POST("/match/:id/points", matches.Points)
	router.POST("/match/:id/score", matches.Score)
	router.POST("/match/:id/finish", matches.Finish)
	router.GET("/match/:id/live", matches.Live)
	router.GET("/match/:id/qrcode", matches.QRCode)

	apiCtl := &controllers.APIController{Service: svc}
	api := router.Group("/api", middleware.CORS(cfg.CORSAllowedOrigins))
	{
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		api.POST("/competitions", apiCtl.CreateCompetition)
		api.GET("/competitions", apiCtl.ListCompetitions)
		api.GET("/competitions/:id", apiCtl.GetCompetition)
		api.POST("/competitions/:id/matches", apiCtl.CreateMatch)
		api.GET("/matches/:id", apiCtl.GetMatch)
		api.POST("/matches/:id/score", apiCtl.UpdateScore)
		api.POST("/matches/:id/points", apiCtl.AdjustPoints)
		api.POST("/matches/:id/finish", apiCtl.FinishMatch)
	}

	router.NoRoute(controllers.NotFound)
	return router
}

package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coffeepress/coffeepress/internal/blog"
	"github.com/coffeepress/coffeepress/internal/config"
	"github.com/coffeepress/coffeepress/internal/images"
	"github.com/coffeepress/coffeepress/internal/metrics"
	"github.com/coffeepress/coffeepress/internal/middleware"
	"github.com/coffeepress/coffeepress/internal/prefs"
	"github.com/coffeepress/coffeepress/pkg"
	"github.com/coocood/freecache"
	"github.com/dgraph-io/badger/v4"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const previewCacheSize = 10 * 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	postsRepo   blogPostsRepo
	prefsStore  prefs.Store
	imageSearch *images.UnsplashClient

	redisClient *redis.Client
	badgerDB    *badger.DB

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

// blogPostsRepo mirrors the repo surface of the blog package, so the server
// can hold either backend behind one field.
type blogPostsRepo interface {
	Add(ctx context.Context, post *blog.Post) error
	Update(ctx context.Context, post *blog.Post) error
	Get(ctx context.Context, id string) (*blog.Post, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*blog.Post, error)
}

type NewServerParams struct {
	Config            *config.Config
	UnsplashAccessKey string
	RedisPassword     string
	VersionInfo       string
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("coffeepress", "service", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	s := &Server{
		config:         cfg,
		versionInfo:    params.VersionInfo,
		imageSearch:    images.NewUnsplashClient(cfg.UnsplashBaseURL, params.UnsplashAccessKey),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}

	switch cfg.StoreType {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0,
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		s.redisClient = rdb
		s.postsRepo = blog.NewRedisRepo(rdb)
		s.prefsStore = prefs.NewRedisStore(rdb)
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerPath))
		if err != nil {
			return nil, fmt.Errorf("open badger store at %s: %w", cfg.BadgerPath, err)
		}
		s.badgerDB = db
		s.postsRepo = blog.NewBadgerRepo(db)
		s.prefsStore = prefs.NewBadgerStore(db)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.StoreType)
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()

	blogHandler := blog.NewHandler(
		s.postsRepo,
		s.metricsManager,
		freecache.NewCache(previewCacheSize),
	)
	blogHandler.SetupRoutes(r)

	prefsHandler := prefs.NewHandler(s.prefsStore, s.config.DefaultTheme)
	prefsHandler.SetupRoutes(r)

	var imageSearchRateLimiter middleware.RequestRateLimiter
	if s.config.ImageSearchRateLimitActive && s.redisClient != nil {
		imageSearchRateLimiter = redis_rate.NewLimiter(s.redisClient)
	}
	imagesHandler := images.NewHandler(s.imageSearch, s.metricsManager)
	imagesHandler.SetupRoutes(r, imageSearchRateLimiter, s.config.ImageSearchAllowedPerMin)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteJSONResponseOK(w, `{"status":"ok"}`)
	}).Methods("GET").Name("health")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	var shutdownErr error

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
			shutdownErr = multierr.Append(shutdownErr, err)
		}
	}

	if s.badgerDB != nil {
		log.Debugln("closing badger store ...")
		if err := s.badgerDB.Close(); err != nil {
			log.Errorf("failed to close badger store: %s", err)
			shutdownErr = multierr.Append(shutdownErr, err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
		shutdownErr = multierr.Append(shutdownErr, err)
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
		shutdownErr = multierr.Append(shutdownErr, err)
	}
	log.Warnln("metrics server shut down")

	return shutdownErr
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"

	sharedconfig "github.com/desafiobackend/card-services/configs"
	"github.com/desafiobackend/card-services/internal/cardsvc/auth"
	"github.com/desafiobackend/card-services/internal/cardsvc/broker"
	"github.com/desafiobackend/card-services/internal/cardsvc/cache"
	"github.com/desafiobackend/card-services/internal/cardsvc/config"
	"github.com/desafiobackend/card-services/internal/cardsvc/db"
	"github.com/desafiobackend/card-services/internal/cardsvc/handlers"
	"github.com/desafiobackend/card-services/internal/cardsvc/service"
	"github.com/desafiobackend/card-services/internal/cardsvc/store"
	nats "github.com/desafiobackend/card-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "card"

var instanceId string

func init() {
	instanceId = "001"
	sharedconfig.Logging(SERVICE_NAME + "_service_" + instanceId)
	sharedconfig.LoadEnv(SERVICE_NAME)
	sharedconfig.CreateUniqueInstance(SERVICE_NAME)
}

func main() {
	cfg := config.Load()

	// token signing key missing is a configuration error, fail fast
	issuer, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		log.Fatalf("Failed to configure token issuer: %v", err)
	}

	var cardStore store.CardStore
	switch cfg.StoreDriver {
	case "memory":
		cardStore = store.NewMemoryCardStore()
		log.Warn("using in-memory card store, data will not survive restarts")
	default:
		dbpool, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer db.ClosePool()
		log.Printf("pg connection established successfully")
		cardStore = store.NewCardStore(dbpool)
	}

	cardService := service.NewCardService(cardStore)

	var cacheStore cache.TagStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cacheStore = cache.NewRedisStore(rdb)
		log.Printf("redis cache backend at %s", cfg.RedisAddr)
	} else {
		cacheStore = cache.NewMemoryStore()
	}

	// audit events are published only when NATS is configured
	var events *broker.Broker
	if cfg.NatsURL != "" {
		n, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		events = broker.NewBroker(n.Conn)
	}

	// Setup router
	r := chi.NewRouter()
	c := sharedconfig.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(sharedconfig.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(issuer, cfg, cardService, cacheStore, events)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

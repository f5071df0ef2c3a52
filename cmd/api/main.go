package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatterbox-im/chatterbox/internal/auth"
	"github.com/chatterbox-im/chatterbox/internal/data"
	"github.com/chatterbox-im/chatterbox/internal/db"
	"github.com/chatterbox-im/chatterbox/internal/graph"
	"github.com/chatterbox-im/chatterbox/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// local .env files are a convenience; absence is fine
	_ = godotenv.Load()

	initLogger()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		slog.Error("MONGODB_URI must be set")
		os.Exit(1)
	}
	database := os.Getenv("MONGODB_DATABASE")
	if database == "" {
		database = "chatterbox"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	jwtTTL := 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Error("invalid JWT_TTL", "value", v, "err", err)
			os.Exit(1)
		}
		jwtTTL = d
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	dbClient, err := db.New(ctx, mongoURI, database)
	if err != nil {
		slog.Error("failed to connect to DB", "err", err)
		os.Exit(1)
	}
	defer func() {
		_ = dbClient.Close(context.Background())
	}()

	if err := dbClient.CreateIndexes(ctx); err != nil {
		slog.Error("failed to create indexes", "err", err)
		os.Exit(1)
	}

	users := data.NewUsersStore(dbClient.UsersCollection())
	chats := data.NewChatsStore(dbClient.ChatsCollection())
	msgs := data.NewMessagesStore(dbClient.MessagesCollection())
	jwtMgr := auth.NewJWTManager(jwtSecret, jwtTTL)

	resolver := graph.NewResolver(users, chats, msgs, jwtMgr, slog.Default())
	schema := graphql.MustParseSchema(graph.Schema, resolver)

	router := mux.NewRouter()
	router.Use(middleware.Metrics)
	router.Handle("/graphql", middleware.Authenticate(jwtMgr)(&relay.Handler{Schema: schema})).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server exit", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}

// initLogger configures the process-wide slog logger from LOG_LEVEL.
func initLogger() {
	var level slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "runtime"
    "syscall"
    "time"

    _ "github.com/go-sql-driver/mysql"
    "github.com/gorilla/mux"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "tripay-ppob-api/cache"
    "tripay-ppob-api/config"
    "tripay-ppob-api/database"
    "tripay-ppob-api/handlers"
    "tripay-ppob-api/middleware"
    "tripay-ppob-api/services/tripay"
    "tripay-ppob-api/syncer"
)

func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }
        next.ServeHTTP(w, r)
    })
}

type responseWriter struct {
    http.ResponseWriter
    status int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.status = code
    rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(wrapper, r)

        elapsed := time.Since(start)
        if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
            log.Printf(
                "%s %s %s %d %v",
                r.Method,
                r.RequestURI,
                r.RemoteAddr,
                wrapper.status,
                elapsed,
            )
        }
    })
}

func newLogger(cfg config.LoggingConfig) *zap.Logger {
    if !cfg.Enabled {
        return zap.NewNop()
    }
    zapCfg := zap.NewProductionConfig()
    if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
        zapCfg.Level = zap.NewAtomicLevelAt(lvl)
    }
    logger, err := zapCfg.Build()
    if err != nil {
        log.Fatalf("Failed to build logger: %v", err)
    }
    return logger
}

func newManager(cfg *config.Config, store tripay.CacheStore, logger *zap.Logger) *tripay.Manager {
    client, err := tripay.NewClient(cfg.Tripay, cfg.Cache, cfg.Logging, store, logger)
    if err != nil {
        log.Fatalf("Failed to initialize Tripay client: %v", err)
    }
    return tripay.NewManager(client)
}

// connectCacheStore returns nil when Redis is unreachable; the client
// then degrades to uncached reads.
func connectCacheStore(cfg *config.Config) *cache.RedisStore {
    store, err := cache.NewRedisStore(cfg.Redis.URL)
    if err != nil {
        log.Printf("Warning: Redis unavailable, catalog caching disabled: %v", err)
        return nil
    }
    return store
}

func connectDatabase(cfg *config.Config) *database.Connection {
    var db *database.Connection
    var err error
    for retries := 0; retries < 5; retries++ {
        db, err = database.NewConnection(cfg.Database)
        if err == nil {
            return db
        }
        retryDelay := time.Duration(retries+1) * time.Second
        log.Printf("Failed to connect to database (attempt %d/5): %v. Retrying in %v...",
            retries+1, err, retryDelay)
        time.Sleep(retryDelay)
    }
    log.Fatalf("Failed to connect to database after retries: %v", err)
    return nil
}

func main() {
    log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

    cfg := config.Load()

    command := "serve"
    args := []string{}
    if len(os.Args) > 1 {
        command = os.Args[1]
        args = os.Args[2:]
    }

    switch command {
    case "serve":
        runServer(cfg)
    case "sync-categories", "sync-operators", "sync-products":
        runSync(cfg, command, args)
    case "test-connection":
        runTestConnection(cfg)
    case "clear-cache":
        runClearCache(cfg, args)
    default:
        fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
        fmt.Fprintln(os.Stderr, "usage: tripay-ppob-api [serve|sync-categories|sync-operators|sync-products|test-connection|clear-cache]")
        os.Exit(2)
    }
}

func runSync(cfg *config.Config, command string, args []string) {
    fs := flag.NewFlagSet(command, flag.ExitOnError)
    syncType := fs.String("type", syncer.TypeAll, "sync type: prepaid, postpaid or all")
    force := fs.Bool("force", false, "force update of existing records")
    fs.Parse(args)

    logger := newLogger(cfg.Logging)
    defer logger.Sync()

    store := connectCacheStore(cfg)
    if store != nil {
        defer store.Close()
    }

    db := connectDatabase(cfg)
    defer db.Close()

    manager := newManager(cfg, storeOrNil(store), logger)
    s := syncer.New(manager, db, logger)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
    defer cancel()

    var result syncer.Result
    var err error
    switch command {
    case "sync-categories":
        result, err = s.SyncCategories(ctx, *syncType, *force)
    case "sync-operators":
        result, err = s.SyncOperators(ctx, *syncType, *force)
    case "sync-products":
        result, err = s.SyncProducts(ctx, *syncType, *force)
    }
    if err != nil {
        log.Fatalf("%s failed: %v", command, err)
    }

    log.Printf("%s completed: %d created, %d updated, %d failed (%d total)",
        command, result.Created, result.Updated, result.Failed, result.Total())
    if result.Failed > 0 {
        os.Exit(1)
    }
}

func runTestConnection(cfg *config.Config) {
    logger := newLogger(cfg.Logging)
    defer logger.Sync()

    manager := newManager(cfg, nil, logger)

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if !manager.TestConnection(ctx) {
        log.Printf("Connection to Tripay API (%s mode) FAILED", cfg.Tripay.Mode)
        os.Exit(1)
    }
    log.Printf("Connection to Tripay API (%s mode) OK", cfg.Tripay.Mode)
}

func runClearCache(cfg *config.Config, args []string) {
    fs := flag.NewFlagSet("clear-cache", flag.ExitOnError)
    cacheType := fs.String("type", "", "key pattern under the cache prefix, empty clears everything")
    fs.Parse(args)

    logger := newLogger(cfg.Logging)
    defer logger.Sync()

    store, err := cache.NewRedisStore(cfg.Redis.URL)
    if err != nil {
        log.Fatalf("Failed to connect to Redis: %v", err)
    }
    defer store.Close()

    manager := newManager(cfg, store, logger)

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    deleted, err := manager.Client().ClearCache(ctx, *cacheType)
    if err != nil {
        log.Fatalf("Failed to clear cache: %v", err)
    }
    log.Printf("Cleared %d cached entries", deleted)
}

// storeOrNil avoids handing the client a typed nil interface value.
func storeOrNil(store *cache.RedisStore) tripay.CacheStore {
    if store == nil {
        return nil
    }
    return store
}

func runServer(cfg *config.Config) {
    numCPU := runtime.NumCPU()
    runtime.GOMAXPROCS(numCPU)
    log.Printf("Server starting with %d CPUs available", numCPU)

    logger := newLogger(cfg.Logging)
    defer logger.Sync()

    db := connectDatabase(cfg)
    defer db.Close()
    log.Println("Successfully connected to database")

    store := connectCacheStore(cfg)
    if store != nil {
        defer store.Close()
        log.Println("Successfully connected to Redis")
    }

    manager := newManager(cfg, storeOrNil(store), logger)

    callbackHandler := handlers.NewCallbackHandler(db, cfg.Callback.Secret, logger)
    adminHandler := handlers.NewAdminHandler(db, manager)

    router := mux.NewRouter()
    router.Use(corsMiddleware)
    router.Use(loggingMiddleware)

    if store != nil {
        limiter := middleware.NewRateLimiter(store.Client(), cfg.RateLimit)
        router.Use(limiter.Middleware())
    }

    api := router.PathPrefix("/api/tripay").Subrouter()
    api.HandleFunc("/callback", callbackHandler.HandleCallback).Methods("POST")

    admin := api.PathPrefix("/admin").Subrouter()
    admin.Use(middleware.AuthMiddleware(cfg.Admin.JWTSecret))
    admin.HandleFunc("/categories", adminHandler.GetCategories).Methods("GET", "OPTIONS")
    admin.HandleFunc("/operators", adminHandler.GetOperators).Methods("GET", "OPTIONS")
    admin.HandleFunc("/products", adminHandler.GetProducts).Methods("GET", "OPTIONS")
    admin.HandleFunc("/transactions", adminHandler.GetTransactions).Methods("GET", "OPTIONS")
    admin.HandleFunc("/transactions/{api_trx_id}", adminHandler.GetTransaction).Methods("GET", "OPTIONS")
    admin.HandleFunc("/balance", adminHandler.GetBalance).Methods("GET", "OPTIONS")

    startTime := time.Now()

    api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()

        health := struct {
            Status    string `json:"status"`
            Time      string `json:"time"`
            Database  string `json:"database"`
            Redis     string `json:"redis"`
            Uptime    string `json:"uptime"`
            GoVersion string `json:"go_version"`
        }{
            Status:    "ok",
            Time:      time.Now().Format(time.RFC3339),
            Database:  "connected",
            Redis:     "connected",
            Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
            GoVersion: runtime.Version(),
        }

        dbCtx, dbCancel := context.WithTimeout(ctx, 500*time.Millisecond)
        defer dbCancel()

        if err := db.GetDB().PingContext(dbCtx); err != nil {
            health.Status = "degraded"
            health.Database = "error"
        }

        if store == nil {
            health.Redis = "disabled"
        } else {
            redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
            defer redisCancel()

            if err := store.Client().Ping(redisCtx).Err(); err != nil {
                health.Status = "degraded"
                health.Redis = "error"
            }
        }

        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(health)
    }).Methods("GET")

    srv := &http.Server{
        Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
        Handler:        router,
        ReadTimeout:    15 * time.Second,
        WriteTimeout:   30 * time.Second,
        IdleTimeout:    120 * time.Second,
        MaxHeaderBytes: 1 << 20,
    }

    go func() {
        log.Printf("Server starting on port %s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("Server error: %v", err)
        }
    }()

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

    <-stop
    log.Println("Shutdown signal received, gracefully shutting down...")

    shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer shutdownCancel()

    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Printf("Server forced to shutdown: %v", err)
    }

    log.Println("Server exited properly")
}

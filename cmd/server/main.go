package main // Entry point package

import (
    "context" // Cancellation for background tasks
    "log"     // Logging library
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/room-reservation/internal/booking"    // Lifecycle engine, ledger and sweeper
    "github.com/iliyamo/room-reservation/internal/config"     // Internal config loader
    "github.com/iliyamo/room-reservation/internal/database"   // MySQL connector
    "github.com/iliyamo/room-reservation/internal/handler"    // HTTP handlers
    "github.com/iliyamo/room-reservation/internal/middleware" // Rate limiting
    "github.com/iliyamo/room-reservation/internal/queue"      // Booking event consumer
    "github.com/iliyamo/room-reservation/internal/repository" // SQL repositories
    "github.com/iliyamo/room-reservation/internal/router"     // Route registration
    queuepub "github.com/iliyamo/room-reservation/internal/service"
)

func main() {
    // .env is optional; real deployments set environment variables directly.
    _ = godotenv.Load()

    cfg := config.Load() // Load environment config

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    reservations := repository.NewReservationRepo(db)
    rooms := repository.NewRoomRepo(db)
    employees := repository.NewEmployeeRepo(db)
    blacklist := repository.NewBlacklistRepo(db)
    cancellations := repository.NewCancellationRepo(db)

    clock := booking.SystemClock{}
    events := queuepub.Publisher{}
    ledger := booking.NewLedger(employees, blacklist, clock)
    engine := booking.NewEngine(reservations, rooms, cancellations, ledger, clock, events)

    sweeper := booking.NewSweeper(reservations, repository.NewAtomicStores(db), ledger, clock, events)
    sweeper.Interval = cfg.SweepInterval
    sweeper.Grace = cfg.GracePeriod
    sweeper.Window = cfg.SweepWindow

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go sweeper.Run(ctx)

    // The consumer reconnects on its own; a broker outage only pauses
    // the booking log, never the API.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("queue consumer: %v", err)
        }
    }()

    e := echo.New() // Create Echo instance
    if rdb := config.NewRedisClient(); rdb != nil {
        e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    } else {
        log.Println("redis unavailable, rate limiting disabled")
    }

    router.RegisterRoutes(e) // Health check
    router.RegisterAPI(e, router.Handlers{
        Auth:    handler.NewAuthHandler(cfg, employees),
        Booking: handler.NewBookingHandler(engine),
        Admin:   handler.NewAdminBookingHandler(engine, sweeper),
        Rooms:   handler.NewRoomHandler(rooms),
        Ledger:  handler.NewBlacklistHandler(ledger, employees),
    }, cfg.JWTSecret)

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"milltrace.org/internal/authz"
	"milltrace.org/internal/httpapi"
	"milltrace.org/internal/obs"
	"milltrace.org/internal/store/pg"
)

var (
	version = "0.4.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("MILLTRACE_PG_DSN")
	if dsn == "" {
		log.Fatal("missing MILLTRACE_PG_DSN")
	}
	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	engine, err := authz.NewEngine(store)
	if err != nil {
		log.Fatalf("init authz engine: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{Pinger: store}, version, engine, store, store, store)

	addr := os.Getenv("MILLTRACE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.RateLimit(httpapi.MaxBodyBytes(api.Handler(), 1<<20), 50, 25),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting milltrace-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = store.Close()
	log.Println("Stopped")
}

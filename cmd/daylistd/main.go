package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"daylist/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	dbURL := flag.String("db", "", "Postgres connection string (empty uses in-memory storage)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, cleanup, err := buildRepo(ctx, *dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daylistd: %v\n", err)
		return 1
	}
	defer cleanup()

	srv := &http.Server{
		Addr:    *addr,
		Handler: server.NewServer(repo),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Print("shutting down")
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "daylistd: shutdown: %v\n", err)
			return 1
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "daylistd: %v\n", err)
			return 1
		}
	}
	return 0
}

func buildRepo(ctx context.Context, dbURL string) (server.Repository, func(), error) {
	if dbURL == "" {
		log.Print("using in-memory storage")
		return server.NewMemoryRepo(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	repo := server.NewPostgresRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	log.Print("using postgres storage")
	return repo, pool.Close, nil
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edubackend/internal/app"
	"edubackend/internal/auth"
	"edubackend/internal/config"
	"edubackend/internal/dispatch"
	api "edubackend/internal/http"

	"github.com/gin-gonic/gin"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := config.OpenDB(env.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	mux := dispatch.NewMux()
	handlers := app.NewHandlers(db, []byte(env.JWTSecret), env.TokenTTL)
	if err := handlers.RegisterAll(mux); err != nil {
		log.Fatalf("handler registration failed: %v", err)
	}
	log.Printf("registered %d operations", len(mux.Names()))

	r, err := api.NewRouter(env, mux, auth.NewJWTResolver([]byte(env.JWTSecret)))
	if err != nil {
		log.Fatalf("router validation failed: %v", err)
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}

// fmp-server - HTTP доступ к инструменту "FMP Data".
//
//	POST /v1/query   {"query": "...", "response_format": "both"}
//	GET  /v1/thread  ?refresh=true
//	GET  /healthz
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dimiro1/banner"
	"github.com/gorilla/mux"

	"github.com/MehdiZare/langchain-fmp-data/pkg/app"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	timeout := flag.Duration("timeout", 5*time.Minute, "per-request timeout")
	flag.Parse()

	ctx, shutdown := utils.SignalContext(context.Background())
	defer shutdown()

	cfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		return err
	}
	if err := app.InitLogger(cfg); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	printBanner()

	components, err := app.Initialize(ctx, cfg, cfgPath)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	NewHandler(components.Tool, *timeout).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("Server listening", "addr", cfg.Server.Addr)
		fmt.Printf("Listening on %s\n", cfg.Server.Addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printBanner() {
	tpl := "{{ .Title \"FMP DATA\" \"\" 0 }}\nVersion: " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grabtube/grabtube/internal/api"
	"github.com/grabtube/grabtube/internal/config"
	"github.com/grabtube/grabtube/internal/engine"
	"github.com/grabtube/grabtube/internal/store"
	"github.com/grabtube/grabtube/internal/sweeper"
)

func main() {
	cfg := config.Load()

	// Initialize the artifact store; the directory is created if missing.
	st, err := store.New(cfg.DownloadDir)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	manager := engine.NewManager(st, buildExtractor(cfg, st.Dir()), engine.NewTitleResolver(), cfg.FetchTimeout)
	sw := sweeper.New(st, cfg.RetentionTTL, cfg.SweepInterval)

	srv := api.New(manager, st)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sw.Start(ctx)
		return nil
	})
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	fmt.Printf("grabtube server listening on http://localhost:%s\n", cfg.Port)
	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildExtractor picks the real yt-dlp collaborator when the binary is
// available, falling back to the stub so the server stays usable in
// development environments.
func buildExtractor(cfg config.Config, dir string) engine.Extractor {
	if cfg.UseStub {
		log.Println("USE_STUB set, using stub extractor")
		return engine.NewStubExtractor(dir)
	}

	binary := cfg.YTDLPPath
	if binary == "" {
		path, err := exec.LookPath("yt-dlp")
		if err != nil {
			log.Println("yt-dlp not found on PATH, using stub extractor")
			return engine.NewStubExtractor(dir)
		}
		binary = path
	}

	log.Printf("using yt-dlp extractor (%s)", binary)
	return engine.NewYTDLPExtractor(dir, binary, cfg.SocketTimeout.Seconds())
}

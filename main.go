package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/soar/padcheck/internal/config"
	"github.com/soar/padcheck/internal/console"
	"github.com/soar/padcheck/internal/hub"
	"github.com/soar/padcheck/internal/sampler"
	"github.com/soar/padcheck/internal/sdlinput"
	"github.com/soar/padcheck/internal/server"
	"github.com/soar/padcheck/internal/session"
	"github.com/soar/padcheck/internal/telemetry"
	"github.com/soar/padcheck/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reader := sdlinput.NewReader(cfg.PollInterval, cfg.Debug)
	reader.AfterInit(console.OnInterrupt(func() {
		log.Println("Interrupt received")
		cancel()
	}))
	clock := sampler.NewFrameClock(cfg.PollInterval)
	sess := session.New(reader, clock, reader)

	h := hub.NewHub()
	broadcaster := hub.NewBroadcaster(h, sess.Frames(), cfg.Deadzone)
	frontend, err := frontendFS()
	if err != nil {
		log.Fatalf("Frontend error: %v", err)
	}
	srv := server.New(h, broadcaster, sess, frontend, cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)

	// SDL needs its own locked thread; Run locks it.
	g.Go(func() error { return reader.Run(gctx) })
	g.Go(func() error { return clock.Run(gctx) })
	g.Go(func() error { return sess.Watch(gctx) })
	g.Go(func() error { return h.Run(gctx) })
	g.Go(func() error { return broadcaster.Run(gctx) })
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		return nil
	})

	if cfg.MQTTBroker != "" {
		pub := telemetry.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix, cfg.MQTTInterval, sess.Table())
		g.Go(func() error {
			// Telemetry is optional; a broker outage must not stop the tool.
			if err := pub.Run(gctx); err != nil {
				log.Printf("Telemetry disabled: %v", err)
			}
			return nil
		})
	}

	log.Printf("padcheck started: %s", cfg.URL())

	// Initialize system tray on Windows only
	if runtime.GOOS == "windows" && cfg.Tray {
		go func() {
			t := tray.New(cfg.URL(), sess, func() {
				log.Println("Shutdown requested from tray")
				cancel()
			})
			t.Run()
		}()
	} else {
		log.Println("Press Ctrl+C to exit")
	}

	if err := g.Wait(); err != nil {
		log.Printf("padcheck stopped with error: %v", err)
		os.Exit(1)
	}
	log.Println("padcheck stopped")
}

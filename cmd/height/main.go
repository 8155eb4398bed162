package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nicolagi/height"
	"github.com/nicolagi/height/config"
	"github.com/nicolagi/height/selector"
	log "github.com/sirupsen/logrus"
)

const goodbye = "Thanks for using height!"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp(os.Stdin, os.Stdout)
	err := newRootCommand(a).ExecuteContext(ctx)
	a.close()
	stop()
	switch {
	case err == nil:
	case errors.Is(err, selector.ErrInterrupted), errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintf(os.Stdout, "\n%s\n", goodStyle.Sprint(goodbye))
		os.Exit(130)
	default:
		_, _ = fmt.Fprintf(os.Stderr, "height: %v\n", err)
		os.Exit(1)
	}
}

func mustCreateClient(cfg *config.Config) *height.Client {
	client, err := height.NewClient(cfg.Token, height.WithEndpoint(cfg.Endpoint), height.WithWireLog(cfg.WireLog))
	if err != nil {
		log.WithFields(log.Fields{
			"wireLog": cfg.WireLog,
			"cause":   err,
		}).Fatal("Could not create client")
	}
	return client
}

func setLogLevel(level string, fallback log.Level) error {
	if level == "" {
		log.SetLevel(fallback)
		return nil
	}
	l, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(l)
	return nil
}

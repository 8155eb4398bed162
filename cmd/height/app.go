package main

import (
	"io"

	"github.com/nicolagi/height"
	"github.com/nicolagi/height/batch"
	"github.com/nicolagi/height/config"
	"github.com/nicolagi/height/export"
	"github.com/nicolagi/height/selector"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// app holds what the commands share. The API client is only created by commands that need it, so that browsing
// previous exports works without a token.
type app struct {
	v   *viper.Viper
	cfg *config.Config

	in   io.Reader
	out  io.Writer
	term selector.Terminal

	store    *export.Store
	client   *height.Client
	exporter *export.Exporter
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{
		v:    config.New(),
		in:   in,
		out:  out,
		term: selector.StdTerminal{},
	}
}

func (a *app) load() error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if err := setLogLevel(cfg.LogLevel, log.InfoLevel); err != nil {
		return err
	}
	a.store = export.NewStore(cfg.ExportDir)
	return nil
}

func (a *app) connect() error {
	if a.client != nil {
		return nil
	}
	if err := a.cfg.CheckToken(); err != nil {
		return err
	}
	a.client = mustCreateClient(a.cfg)
	opts := append(a.cfg.FetchOptions(), batch.WithLogger(log.WithField("component", "fetcher")))
	a.exporter = export.NewExporter(a.client, a.store, opts...)
	return nil
}

// close releases the client, if any. The next command needing the API connects again.
func (a *app) close() {
	if a.client == nil {
		return
	}
	if err := a.client.Close(); err != nil {
		log.WithField("cause", err).Warning("Could not close wire log")
	}
	a.client = nil
	a.exporter = nil
}

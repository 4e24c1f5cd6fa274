package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/client/dashboard"
	"github.com/atinyakov/shipdash/internal/client/remote"
	"github.com/atinyakov/shipdash/internal/client/session"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/config"
	"github.com/atinyakov/shipdash/internal/logger"
	"github.com/atinyakov/shipdash/internal/models"
)

var errNotLoggedIn = errors.New("not logged in, run `shipdash login` first")

// app holds the wiring shared by every command.
type app struct {
	opts config.ClientOptions
	in   *bufio.Scanner
	out  io.Writer

	log     *zap.Logger
	store   storage.Store
	remote  *remote.Client
	session *session.Session
	dash    *dashboard.Service
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{
		opts: config.DefaultClientOptions(),
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// setup builds the components once. A store set beforehand is kept.
func (a *app) setup() error {
	if a.dash != nil {
		return nil
	}

	if a.log == nil {
		l := logger.New()
		if err := l.Init(a.opts.LogLevel); err != nil {
			return err
		}
		a.log = l.Log
	}

	if a.store == nil {
		if dir := filepath.Dir(a.opts.StorePath); dir != "" {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("create store dir: %w", err)
			}
		}
		fs, err := storage.OpenFileStore(a.opts.StorePath)
		if err != nil {
			return err
		}
		a.store = fs
	}

	httpClient, err := remote.NewHTTPClient(a.opts.CAFile)
	if err != nil {
		return err
	}
	a.remote = remote.New(a.opts.BaseURL, httpClient, a.store, a.log)
	a.session = session.New(a.store, a.remote, a.remote, a.log)
	a.dash = dashboard.New(a.store, a.remote, a.remote, a.log)
	return nil
}

// user returns the logged-in identity or errNotLoggedIn.
func (a *app) user() (*models.Identity, error) {
	u := a.session.CurrentUser()
	if u == nil {
		return nil, errNotLoggedIn
	}
	return u, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

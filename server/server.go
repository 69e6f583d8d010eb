package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gpiodash/gpiodash/hardware/gpio"
	"github.com/gpiodash/gpiodash/notify"
	"github.com/gpiodash/gpiodash/pins"
	"github.com/gpiodash/gpiodash/store"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Addr string

	// Pins must already have been initialised on GPIO.
	Pins *pins.Registry
	GPIO gpio.GPIO

	// Store and Notifier are optional.
	Store    store.Store
	Notifier notify.Notifier

	// Reboot restarts the host. Defaults to running "sudo reboot now".
	Reboot func(ctx context.Context) error

	Logger *logrus.Logger

	pinManager *pinManager
}

func (s *Server) Run(ctx context.Context) error {
	if err := s.init(); err != nil {
		return fmt.Errorf("unable to initialize: %w", err)
	}

	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadTimeout:       time.Second * 15,
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 30,
		MaxHeaderBytes:    4096,
	}

	listenErrs := make(chan error, 1)
	go func() {
		s.Logger.WithField("addr", s.Addr).Info("serving http")
		listenErrs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-listenErrs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	}
}

// init checks the server's dependencies and sets up the pin manager.
func (s *Server) init() error {
	if s.Pins == nil {
		return errors.New("no pin registry")
	}
	if s.GPIO == nil {
		return errors.New("no gpio driver")
	}

	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	if s.Reboot == nil {
		s.Reboot = Command("sudo", "reboot", "now")
	}
	s.Logger.Warn("/reboot is served without authentication")

	if s.Store == nil {
		s.Logger.Warn("no store configured, pin actions won't be journaled")
	}

	s.pinManager = newPinManager(s.GPIO, s.Pins)

	return nil
}

func (s *Server) routes() http.Handler {
	mux := httprouter.New()

	mux.HandlerFunc(http.MethodGet, "/", s.dashboard)
	mux.HandlerFunc(http.MethodGet, "/setpin/:pin/:action", s.setPin)
	mux.HandlerFunc(http.MethodGet, "/ping/:pin", s.ping)
	mux.HandlerFunc(http.MethodGet, "/reboot", s.reboot)

	mux.HandlerFunc(http.MethodGet, "/api/pins", s.listPins)
	mux.HandlerFunc(http.MethodGet, "/api/events", s.listEvents)

	return mux
}

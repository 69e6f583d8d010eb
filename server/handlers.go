package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gpiodash/gpiodash/hardware/gpio"
	"github.com/gpiodash/gpiodash/pins"
	"github.com/gpiodash/gpiodash/store"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

const (
	actionOn     = "on"
	actionOff    = "off"
	actionToggle = "toggle"

	defaultEventLimit = 50
)

// ErrUnknownAction is returned for a set-pin action other than on, off or
// toggle.
var ErrUnknownAction = errors.New("unknown action")

var errNoStore = errors.New("no store configured")

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type pinView struct {
	Pin   int        `json:"pin"`
	Name  string     `json:"name"`
	State gpio.Level `json:"state"`
}

func views(all []*pins.Pin) []pinView {
	v := make([]pinView, 0, len(all))
	for _, p := range all {
		v = append(v, pinView{Pin: p.Number, Name: p.Name, State: p.State()})
	}

	return v
}

func (s *Server) dashboard(res http.ResponseWriter, req *http.Request) {
	all, err := s.pinManager.Refresh()
	if err != nil {
		s.Logger.WithError(err).Error("unable to read pins for dashboard")
		respondText(res, fmt.Errorf("unable to read pins: %w", err), http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	if err := dashboardTemplate.Execute(&page, struct{ Pins []pinView }{views(all)}); err != nil {
		s.Logger.WithError(err).Error("unable to render dashboard")
		respondText(res, err, http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	_, _ = page.WriteTo(res)
}

// pinParam parses the :pin path parameter.
func pinParam(req *http.Request) (int, error) {
	params := httprouter.ParamsFromContext(req.Context())
	raw := params.ByName("pin")

	number, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid pin %q", raw)
	}

	return number, nil
}

func (s *Server) setPin(res http.ResponseWriter, req *http.Request) {
	number, err := pinParam(req)
	if err != nil {
		respondText(res, err, http.StatusBadRequest)
		return
	}

	pin, err := s.Pins.Lookup(number)
	if err != nil {
		respondText(res, fmt.Errorf("pin %d: %w", number, err), http.StatusNotFound)
		return
	}

	action := httprouter.ParamsFromContext(req.Context()).ByName("action")

	var (
		level   gpio.Level
		message string
	)
	switch action {
	case actionOn:
		level = gpio.High
		err = s.pinManager.Write(pin, level)
		message = fmt.Sprintf("Turned %s on.", pin.Name)
	case actionOff:
		level = gpio.Low
		err = s.pinManager.Write(pin, level)
		message = fmt.Sprintf("Turned %s off.", pin.Name)
	case actionToggle:
		level, err = s.pinManager.Toggle(pin)
		message = fmt.Sprintf("Toggled %s.", pin.Name)
	default:
		respondText(res, fmt.Errorf("%w %q", ErrUnknownAction, action), http.StatusBadRequest)
		return
	}

	logger := s.Logger.WithFields(logrus.Fields{"pin": pin.Number, "action": action})
	if err != nil {
		logger.WithError(err).Error("unable to set pin")
		respondText(res, fmt.Errorf("unable to %s %s: %w", action, pin.Name, err), http.StatusInternalServerError)
		return
	}
	logger.Info(message)

	s.record(req.Context(), store.Event{
		Time:    time.Now(),
		Pin:     pin.Number,
		Name:    pin.Name,
		Action:  action,
		Level:   level,
		Message: message,
	})

	respondText(res, message, http.StatusOK)
}

// record journals and publishes a pin action. Failures are logged; the action
// itself already happened.
func (s *Server) record(ctx context.Context, e store.Event) {
	if s.Store != nil {
		var err error
		if e, err = s.Store.Append(e); err != nil {
			s.Logger.WithError(err).Warn("unable to journal pin action")
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, e); err != nil {
			s.Logger.WithError(err).Warn("unable to publish pin action")
		}
	}
}

func (s *Server) ping(res http.ResponseWriter, req *http.Request) {
	number, err := pinParam(req)
	if err != nil {
		respondText(res, err, http.StatusBadRequest)
		return
	}

	s.Logger.Debugf("pong %d", number)
	respondText(res, "pong", http.StatusOK)
}

func (s *Server) reboot(res http.ResponseWriter, req *http.Request) {
	s.Logger.WithField("remote", req.RemoteAddr).Warn("rebooting host")

	if err := s.Reboot(req.Context()); err != nil {
		s.Logger.WithError(err).Error("unable to reboot")
		respondText(res, err, http.StatusInternalServerError)
		return
	}

	respondText(res, "rebooting", http.StatusAccepted)
}

func (s *Server) listPins(res http.ResponseWriter, req *http.Request) {
	all, err := s.pinManager.Refresh()
	if err != nil {
		respond(res, fmt.Errorf("unable to read pins: %w", err), http.StatusInternalServerError)
		return
	}

	respond(res, views(all), http.StatusOK)
}

func (s *Server) listEvents(res http.ResponseWriter, req *http.Request) {
	if s.Store == nil {
		respond(res, errNoStore, http.StatusNotFound)
		return
	}

	limit := defaultEventLimit
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond(res, fmt.Errorf("invalid limit %q", raw), http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.Store.Events(limit)
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, events, http.StatusOK)
}

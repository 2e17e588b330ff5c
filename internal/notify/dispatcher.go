// Package notify sends outbound push notifications when new games or
// sessions are announced. Delivery is fire-and-forget: failures are logged
// and never retried.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Audience selects which members receive a notification, matched against
// their notification preferences.
const (
	AudienceSessions = "sessions"
	AudienceGames    = "games"
)

// Notification is the outbound payload.
type Notification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	TargetURL string `json:"target_url"`
	Audience  string `json:"audience"`
}

// Dispatcher posts notifications to the configured endpoint.
type Dispatcher struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      logrus.FieldLogger
}

// NewDispatcher creates a dispatcher. With an empty endpoint dispatch is a
// no-op.
func NewDispatcher(endpoint, apiKey string, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Dispatch sends the notification in the background and returns
// immediately.
func (d *Dispatcher) Dispatch(n Notification) {
	if d.endpoint == "" {
		return
	}
	go d.send(n)
}

func (d *Dispatcher) send(n Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		d.log.WithError(err).Error("notification payload marshal failed")
		return
	}

	req, err := http.NewRequest(http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		d.log.WithError(err).Error("notification request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		d.log.WithError(err).WithField("title", n.Title).Warn("notification dispatch failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.log.WithFields(logrus.Fields{"title": n.Title, "status": resp.StatusCode}).
			Warn("notification dispatch rejected")
	}
}

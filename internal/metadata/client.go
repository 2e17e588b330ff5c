// Package metadata looks up external game-catalogue data (cover image,
// complexity weight, community rating) for a catalogue reference.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// GameMeta is the catalogue data attached to a game on creation or edit.
type GameMeta struct {
	CoverImageURL string   `json:"image_url"`
	Weight        *float64 `json:"weight"`
	Rating        *float64 `json:"rating"`
}

// Client calls the external catalogue service.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewClient creates a metadata client. With an empty baseURL every lookup
// returns nil, so an unconfigured deployment degrades to empty fields.
func NewClient(baseURL string, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// Lookup fetches metadata for one catalogue reference. Any failure is
// logged and reported as a nil result; callers keep the game's fields
// empty rather than failing the operation.
func (c *Client) Lookup(ctx context.Context, catalogRef string) *GameMeta {
	if c.baseURL == "" || catalogRef == "" {
		return nil
	}

	url := fmt.Sprintf("%s/things/%s", c.baseURL, catalogRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.WithError(err).WithField("ref", catalogRef).Warn("metadata lookup failed")
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("ref", catalogRef).Warn("metadata lookup failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{"ref": catalogRef, "status": resp.StatusCode}).
			Warn("metadata lookup returned non-OK status")
		return nil
	}

	var meta GameMeta
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		c.log.WithError(err).WithField("ref", catalogRef).Warn("metadata response unreadable")
		return nil
	}
	return &meta
}

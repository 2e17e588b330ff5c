package handler

import (
	"strconv"

	"gameclub/backend/internal/catalog"
	"gameclub/backend/internal/clubsession"
	"gameclub/backend/internal/metadata"
	"gameclub/backend/internal/notify"

	"github.com/gin-gonic/gin"
)

// Collaborators shared by the handlers, wired once at startup.
var (
	sessionSvc *clubsession.Service
	syncer     *catalog.BestScoreSyncer
	metaClient *metadata.Client
	dispatcher *notify.Dispatcher
)

// Setup wires the handler package's collaborators. Must be called before
// the router starts serving.
func Setup(sessions *clubsession.Service, scoreSyncer *catalog.BestScoreSyncer, meta *metadata.Client, notifier *notify.Dispatcher) {
	sessionSvc = sessions
	syncer = scoreSyncer
	metaClient = meta
	dispatcher = notifier
}

// viewerID returns the authenticated user's id, or 0 for guests on
// optionally-authenticated routes.
func viewerID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		return v.(uint)
	}
	return 0
}

func atoiDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_PostsPayloadWithAuth(t *testing.T) {
	received := make(chan Notification, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var n Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		received <- n
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, "secret-key", logrus.New())
	d.send(Notification{
		Title:     "New session: Cascadia",
		Body:      "Friday 19:00 at the club house",
		TargetURL: "/sessions/42",
		Audience:  AudienceSessions,
	})

	n := <-received
	assert.Equal(t, "New session: Cascadia", n.Title)
	assert.Equal(t, AudienceSessions, n.Audience)
	assert.Equal(t, "/sessions/42", n.TargetURL)
}

func TestDispatch_NoopWhenUnconfigured(t *testing.T) {
	d := NewDispatcher("", "", logrus.New())
	// Must not panic or block.
	d.Dispatch(Notification{Title: "ignored"})
}

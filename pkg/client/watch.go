package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Watch subscribes to the server's change feed and invalidates cached queries
// whenever another writer changes data. onEvent, if set, sees every event.
// It returns nil once ctx is done.
func (c *Client) Watch(ctx context.Context, onEvent func(Event)) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", c.session.Token())
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return &NetworkError{Op: "watch", Err: err}
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c.log.Debug("watching change feed")
	for {
		var evt Event
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return &NetworkError{Op: "watch", Err: err}
		}

		if evt.Type == EventResourceChanged && evt.Resource != "" {
			c.invalidate(evt.Resource)
			c.log.Debug("cache invalidated by change feed",
				zap.String("resource", evt.Resource), zap.String("action", evt.Action))
		}
		if onEvent != nil {
			onEvent(evt)
		}
	}
}

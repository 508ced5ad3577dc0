package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"shopstream/pkg/logger"
	"shopstream/pkg/metrics"
)

// Subscribe opens the realtime change feed over a websocket. Change
// events are delivered on the returned channel until ctx is cancelled
// or the peer closes; the channel is closed either way.
func (c *Client) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	wsURL := httpToWS(c.baseURL) + "/api/realtime"

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: realtime dial: %w", err)
	}

	events := make(chan ChangeEvent, 16)

	// Closing the connection unblocks the read loop below.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()

		for {
			var ev ChangeEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("realtime feed closed", "error", err)
				}
				return
			}

			metrics.RealtimeEvents.WithLabelValues(ev.Type).Inc()

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func httpToWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}

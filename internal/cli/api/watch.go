package api

import (
	"Planzo/internal/notify"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// wsURL переводит http(s)://host в ws(s)://host/api/ws.
func wsURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/") + "/api/ws"
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}

// Watch подписывается на ленту изменений и вызывает fn на каждое событие,
// пока не отменён ctx или не оборвалось соединение.
func Watch(ctx context.Context, baseURL, token string, fn func(notify.Message)) error {
	header := http.Header{}
	if token != "" {
		header.Set("Cookie", "auth_token="+token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL(baseURL), header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("dial change feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for {
		var m notify.Message
		if err := conn.ReadJSON(&m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return fmt.Errorf("read change feed: %w", err)
		}
		fn(m)
	}
}

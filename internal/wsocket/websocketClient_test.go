package wsocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	h "github.com/helto4real/go-alarmpanel/internal/test"
	ws "github.com/helto4real/go-alarmpanel/internal/wsocket"
)

// TestWebSocket tests the basic functionality against a fake server that
// returns the same thing that is sent.
func TestWebSocket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(serveWS))
	defer server.Close()
	host := strings.TrimPrefix(server.URL, "http://")

	t.Run("TestSendString",
		func(t *testing.T) {
			wClient, err := ws.ConnectWS(context.Background(), host, "/ws", false)
			h.Ok(t, err)
			defer wClient.Close()

			h.Ok(t, wClient.Send([]byte("Hello world!")))
			result, ok := wClient.Read()
			h.Equals(t, true, ok)
			h.Equals(t, "Hello world!", string(result))
		})

	t.Run("TestSendStringMultiple",
		func(t *testing.T) {
			wClient, err := ws.ConnectWS(context.Background(), host, "/ws", false)
			h.Ok(t, err)
			defer wClient.Close()
			h.Ok(t, wClient.Send([]byte("Hello world!")))
			h.Ok(t, wClient.Send([]byte("Hello world again!")))
			result, _ := wClient.Read()
			h.Equals(t, "Hello world!", string(result))
			result, _ = wClient.Read()
			h.Equals(t, "Hello world again!", string(result))
		})

	t.Run("TestSendJSON",
		func(t *testing.T) {
			wClient, err := ws.ConnectWS(context.Background(), host, "/ws", false)
			h.Ok(t, err)
			defer wClient.Close()
			h.Ok(t, wClient.SendJSON(map[string]interface{}{
				"cmd": "ARM",
				"pin": "1234"}))
			result, _ := wClient.Read()
			h.Equals(t, `{"cmd":"ARM","pin":"1234"}`, string(result))
		})

	t.Run("TestSendLargeMessage",
		func(t *testing.T) {
			wClient, err := ws.ConnectWS(context.Background(), host, "/ws", false)
			h.Ok(t, err)
			defer wClient.Close()

			large := strings.Repeat("x", 1<<20)
			h.Ok(t, wClient.Send([]byte(large)))
			result, ok := wClient.Read()
			h.Equals(t, true, ok)
			h.Equals(t, len(large), len(result))
			h.Equals(t, false, wClient.IsClosed())
		})

	t.Run("TestNotConnected",
		func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			wClient, err := ws.ConnectWS(ctx, "127.0.0.1:1", "/ws", false)

			h.NotEquals(t, nil, err)
			h.Equals(t, nil, wClient)
		})

	t.Run("TestClientGracefulDisconnect",
		func(t *testing.T) {
			wClient, err := ws.ConnectWS(context.Background(), host, "/ws", false)
			h.Ok(t, err)
			h.Ok(t, wClient.Send([]byte("close")))

			_, ok := wClient.Read()
			h.Equals(t, false, ok)
			h.Equals(t, true, wClient.IsClosed())
			h.Equals(t, ws.ErrClosed, wClient.Send([]byte("too late")))
			wClient.Close()
		})

	t.Run("TestClientHardDisconnect",
		func(t *testing.T) {
			wClient, err := ws.ConnectWS(context.Background(), host, "/ws", false)
			h.Ok(t, err)

			wClient.Close()
			wClient.Close()

			_, ok := wClient.Read()
			h.Equals(t, false, ok)
			h.Equals(t, ws.ErrClosed, wClient.SendJSON(map[string]string{"cmd": "DISARM"}))
		})
}

func TestURL(t *testing.T) {
	h.Equals(t, "ws://panel.local:8080/ws", ws.URL("panel.local:8080", "/ws", false))
	h.Equals(t, "wss://panel.local/ws", ws.URL("panel.local", "/ws", true))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// serveWS writes back anything it gets, "close" makes it hang up
func serveWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer wsConn.Close()

	for {
		messageType, message, err := wsConn.ReadMessage()
		if err != nil {
			return
		}
		if string(message) == "close" {
			wsConn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Peer closing down.."))
			return
		}
		if err := wsConn.WriteMessage(messageType, message); err != nil {
			return
		}
	}
}

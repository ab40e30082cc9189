package wsocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var log *logrus.Entry

// ErrClosed is returned when sending on a connection that is closed
var ErrClosed = errors.New("websocket is closed")

// Connected is an open websocket connection to the panel server
type Connected interface {
	Close()
	Send(message []byte) error
	SendJSON(message interface{}) error
	Read() ([]byte, bool)
	IsClosed() bool
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// websocketClient owns one websocket connection and its read and write pumps.
type websocketClient struct {
	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	sendChannel chan []byte
	// Channel for received text frames, closed by the read pump
	receiveChannel chan []byte
	// Used to wait for go routines end before close whole websocketClient
	syncWriter sync.WaitGroup
	syncReader sync.WaitGroup
	// Used to thread safe the close method
	m sync.Mutex

	context    context.Context
	cancelFunc context.CancelFunc

	isClosed bool
}

// readPump ensures only one reader per connection.
func (c *websocketClient) readPump() {

	defer func() {
		c.syncReader.Done()
		c.Close()
		// Readers see the end of stream only after the client is marked closed
		close(c.receiveChannel)
		log.Traceln("Close ws readpump")
	}()
	// No read limit, gorilla closes the connection on an oversized frame
	// and the panel decides how many zones a status carries
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if c.IsClosed() {
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Infof("Disconnected from host: %v", err)
			} else {
				log.Errorf("Unexpected websocket error: %v", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			log.Tracef("Ignoring non text frame of type %d", messageType)
			continue
		}
		log.Tracef("msg<-%s", string(message))

		select {
		case c.receiveChannel <- message:
		case <-c.context.Done():
			return
		}
	}
}

// Close the web socket client to free all resources and stop and wait for goroutines
func (c *websocketClient) Close() {
	// Unblocks a Send waiting on a full queue so we can take the lock
	c.cancelFunc()

	// Make sure we make close method thread safe
	c.m.Lock()

	if c.isClosed {
		// Make sure subsequent calls to close just returns
		c.m.Unlock()
		return
	}
	c.isClosed = true
	// The writer drains what is queued and then sends a close frame
	close(c.sendChannel)
	c.m.Unlock()

	c.syncWriter.Wait()

	c.conn.Close()
	c.syncReader.Wait()

	log.Debugln("Closed websocket")
}

// IsClosed returns true if the connection closed
func (c *websocketClient) IsClosed() bool {
	c.m.Lock()
	defer c.m.Unlock()
	return c.isClosed
}

// Send queues a text frame for the write pump
func (c *websocketClient) Send(message []byte) error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.isClosed {
		return ErrClosed
	}

	select {
	case c.sendChannel <- message:
		return nil
	case <-c.context.Done():
		return ErrClosed
	}
}

// SendJSON marshals the message and queues it as a text frame
func (c *websocketClient) SendJSON(message interface{}) error {
	jsonBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.Send(jsonBytes)
}

// Read the next message, returns false when the connection is closed and
// all received messages are consumed
func (c *websocketClient) Read() ([]byte, bool) {
	message, ok := <-c.receiveChannel
	return message, ok
}

// writePump pumps messages to the websocket connection.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *websocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.syncWriter.Done()
		c.Close()
		log.Traceln("Close ws writepump")
	}()
	for {
		select {
		case message, ok := <-c.sendChannel:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				// Close was called, say goodbye to the peer
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Errorf("Failed to write message: %v", err)
				return
			}
			log.Tracef("msg->%s", string(message))

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// URL builds the websocket url for host and path
func URL(host string, path string, ssl bool) string {
	var scheme = "ws"
	if ssl {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: host, Path: path}
	return u.String()
}

// ConnectWS connects to Web Socket
func ConnectWS(ctx context.Context, host string, path string, ssl bool) (Connected, error) {
	u := URL(host, path, ssl)

	c, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	log.Debugf("Connected to %s", u)

	connCtx, cancel := context.WithCancel(context.Background())

	client := &websocketClient{conn: c, sendChannel: make(chan []byte, 256), receiveChannel: make(chan []byte, 16),
		isClosed: false, context: connCtx, cancelFunc: cancel}

	// Do write and read operations in own go routines
	client.syncWriter.Add(1)
	go client.writePump()
	client.syncReader.Add(1)
	go client.readPump()

	return client, nil
}

func init() {

	log = logrus.WithField("prefix", "wsocket")

}

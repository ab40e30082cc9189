package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/helto4real/go-alarmpanel/internal/wsocket"
	"github.com/sirupsen/logrus"
)

var log *logrus.Entry

// DefaultPath is where the panel server accepts websocket connections
const DefaultPath = "/ws"

// Used to fake the connection in tests
var getConnected = wsocket.ConnectWS

// Panel interface represents the alarm panel server connection
type Panel interface {
	Connect(ctx context.Context, host string, path string, ssl bool) error
	Start(ctx context.Context) error
	Stop()
	OnStatus(handler func(Display))
	OnError(handler func(error))
	Arm(pin string) error
	Disarm(pin string) error
	IsConnected() bool
}

// AlarmPanel renders status pushed by the panel server and sends
// arm and disarm commands on the same connection
type AlarmPanel struct {
	conn     wsocket.Connected
	onStatus func(Display)
	onError  func(error)
	last     *Display
	stopped  bool
	m        sync.Mutex
}

var _ Panel = (*AlarmPanel)(nil)

// NewAlarmPanel creates a new panel client, call Connect before Start
func NewAlarmPanel() *AlarmPanel {
	return &AlarmPanel{}
}

// Connect opens the websocket connection, path defaults to DefaultPath
func (a *AlarmPanel) Connect(ctx context.Context, host string, path string, ssl bool) error {
	if path == "" {
		path = DefaultPath
	}
	conn, err := getConnected(ctx, host, path, ssl)
	if err != nil {
		return fmt.Errorf("connect to panel: %w", err)
	}

	a.m.Lock()
	a.conn = conn
	a.stopped = false
	a.m.Unlock()
	return nil
}

// OnStatus registers the handler called with the display for every status
func (a *AlarmPanel) OnStatus(handler func(Display)) {
	a.m.Lock()
	defer a.m.Unlock()
	a.onStatus = handler
}

// OnError registers the handler called for recoverable errors
func (a *AlarmPanel) OnError(handler func(error)) {
	a.m.Lock()
	defer a.m.Unlock()
	a.onError = handler
}

// Start reads status messages until the connection closes. Returns nil
// when stopped or the context is done, ErrTransportClosed if the server
// went away.
func (a *AlarmPanel) Start(ctx context.Context) error {
	conn := a.connection()
	if conn == nil {
		return ErrNotConnected
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.Stop()
		case <-done:
		}
	}()

	for {
		frame, ok := conn.Read()
		if !ok {
			a.m.Lock()
			stopped := a.stopped
			a.m.Unlock()
			if stopped {
				return nil
			}
			log.Warnln("Connection to panel closed")
			return ErrTransportClosed
		}
		a.handleMessage(frame)
	}
}

// Stop closes the connection, safe to call more than once
func (a *AlarmPanel) Stop() {
	a.m.Lock()
	a.stopped = true
	conn := a.conn
	a.m.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// IsConnected returns true while the connection is open
func (a *AlarmPanel) IsConnected() bool {
	conn := a.connection()
	return conn != nil && !conn.IsClosed()
}

// Last returns the most recent display, false before the first status
func (a *AlarmPanel) Last() (Display, bool) {
	a.m.Lock()
	defer a.m.Unlock()
	if a.last == nil {
		return Display{}, false
	}
	return *a.last, true
}

// Arm sends the ARM command with pin
func (a *AlarmPanel) Arm(pin string) error {
	return a.Send(Command{Cmd: CmdArm, Pin: pin})
}

// Disarm sends the DISARM command with pin
func (a *AlarmPanel) Disarm(pin string) error {
	return a.Send(Command{Cmd: CmdDisarm, Pin: pin})
}

// Send queues the command on the connection without waiting for any reply
func (a *AlarmPanel) Send(cmd Command) error {
	conn := a.connection()
	if conn == nil || conn.IsClosed() {
		sendErrorCounter.Inc()
		return ErrNotConnected
	}

	if err := conn.SendJSON(cmd); err != nil {
		sendErrorCounter.Inc()
		if errors.Is(err, wsocket.ErrClosed) {
			return ErrNotConnected
		}
		return fmt.Errorf("send %s: %w", cmd.Cmd, err)
	}
	commandCounter.WithLabelValues(string(cmd.Cmd)).Inc()
	log.Debugf("Sent %s command", cmd.Cmd)
	return nil
}

func (a *AlarmPanel) connection() wsocket.Connected {
	a.m.Lock()
	defer a.m.Unlock()
	return a.conn
}

func (a *AlarmPanel) handleMessage(frame []byte) {
	framesCounter.Inc()

	msg, err := ParseStatus(frame)
	if err != nil {
		malformedCounter.Inc()
		log.Warnf("Skipping status: %v", err)
		a.m.Lock()
		onError := a.onError
		a.m.Unlock()
		if onError != nil {
			onError(err)
		}
		return
	}
	observeStatus(msg)

	a.m.Lock()
	display := Render(a.last, msg)
	a.last = &display
	onStatus := a.onStatus
	a.m.Unlock()

	log.Tracef("status: %s", display)
	if onStatus != nil {
		onStatus(display)
	}
}

func init() {

	log = logrus.WithField("prefix", "alarmpanel")

}

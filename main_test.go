package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/helto4real/go-alarmpanel/client"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestRunPlainSendsOneShot(t *testing.T) {
	commands := make(chan client.Command, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"state":"DISARMED","entry":0,"zones":[false]}`))
		var cmd client.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		commands <- cmd
		// Wait for the client to hang up
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)

	cfg := Config{
		Host:     strings.TrimPrefix(server.URL, "http://"),
		Path:     "/ws",
		LogLevel: "debug",
		LogFile:  filepath.Join(t.TempDir(), "alarmpanel.log"),
		Plain:    true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- run(ctx, cfg, oneShot{arm: true, pin: "1234"}) }()

	select {
	case cmd := <-commands:
		require.Equal(t, client.Command{Cmd: client.CmdArm, Pin: "1234"}, cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("no command received")
	}

	cancel()
	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunConnectFails(t *testing.T) {
	cfg := Config{
		Host:     "127.0.0.1:1",
		Path:     "/ws",
		LogLevel: "info",
		LogFile:  filepath.Join(t.TempDir(), "alarmpanel.log"),
		Plain:    true,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.Error(t, run(ctx, cfg, oneShot{}))
}

func TestSetupLoggingRestoresOutput(t *testing.T) {
	var previous bytes.Buffer
	logrus.SetOutput(&previous)
	logrus.SetLevel(logrus.InfoLevel)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	for name, cfg := range map[string]Config{
		"file":  {LogLevel: "debug", LogFile: filepath.Join(t.TempDir(), "alarmpanel.log")},
		"plain": {LogLevel: "trace", Plain: true},
		"tui":   {LogLevel: "warn"},
	} {
		t.Run(name, func(t *testing.T) {
			closeLog, err := setupLogging(cfg)
			require.NoError(t, err)
			require.NotEqual(t, io.Writer(&previous), logrus.StandardLogger().Out)

			closeLog()
			require.Equal(t, io.Writer(&previous), logrus.StandardLogger().Out)
			require.Equal(t, logrus.InfoLevel, logrus.GetLevel())
		})
	}

	log.Info("after close")
	require.Contains(t, previous.String(), "after close")
}

func TestRunRestoresLogOutput(t *testing.T) {
	var previous bytes.Buffer
	logrus.SetOutput(&previous)
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	cfg := Config{
		Host:     "127.0.0.1:1",
		Path:     "/ws",
		LogLevel: "info",
		LogFile:  filepath.Join(t.TempDir(), "alarmpanel.log"),
		Plain:    true,
	}
	require.Error(t, run(context.Background(), cfg, oneShot{}))
	require.Equal(t, io.Writer(&previous), logrus.StandardLogger().Out)
}

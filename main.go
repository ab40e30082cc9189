// Command alarmpanel shows the state of a home alarm system and lets the
// user arm or disarm it with a PIN. It talks to the panel server over one
// websocket connection.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helto4real/go-alarmpanel/client"
	"github.com/helto4real/go-alarmpanel/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var version = "dev"

var log *logrus.Entry

// oneShot is a command sent once at startup in plain mode
type oneShot struct {
	arm    bool
	disarm bool
	pin    string
}

func main() {
	cfg, err := loadConfig(nil)
	if err != nil {
		log.Fatal(err)
	}

	var shot oneShot
	cmd := &cobra.Command{
		Use:          "alarmpanel",
		Short:        "Alarm panel display and arm/disarm control",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if shot.arm && shot.disarm {
				return errors.New("use only one of --arm and --disarm")
			}
			if (shot.arm || shot.disarm) && !cfg.Plain {
				return errors.New("--arm and --disarm need --plain")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, shot)
		},
	}
	cfg.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&shot.arm, "arm", false, "send ARM once connected (plain mode)")
	cmd.Flags().BoolVar(&shot.disarm, "disarm", false, "send DISARM once connected (plain mode)")
	cmd.Flags().StringVar(&shot.pin, "pin", "", "PIN sent with --arm or --disarm")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "alarmpanel", version)
		},
	})

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, shot oneShot) error {
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	panel := client.NewAlarmPanel()
	if err := panel.Connect(ctx, cfg.Host, cfg.Path, cfg.SSL); err != nil {
		return err
	}
	defer panel.Stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, panel)
	}

	if cfg.Plain {
		return runPlain(ctx, panel, shot)
	}
	return runTUI(ctx, panel)
}

func runPlain(ctx context.Context, panel *client.AlarmPanel, shot oneShot) error {
	panel.OnStatus(func(d client.Display) {
		log.WithFields(logrus.Fields{
			"state": d.State,
			"entry": d.Entry,
			"zones": d.Zones,
		}).Info("Status")
	})
	panel.OnError(func(err error) {
		log.Warnf("Ignored status: %v", err)
	})

	switch {
	case shot.arm:
		if err := panel.Arm(shot.pin); err != nil {
			log.Errorf("Could not arm: %v", err)
		}
	case shot.disarm:
		if err := panel.Disarm(shot.pin); err != nil {
			log.Errorf("Could not disarm: %v", err)
		}
	}

	return panel.Start(ctx)
}

func runTUI(ctx context.Context, panel *client.AlarmPanel) error {
	program := tea.NewProgram(tui.NewModel(panel), tea.WithAltScreen(), tea.WithContext(ctx))

	panel.OnStatus(func(d client.Display) {
		program.Send(tui.StatusMsg{Display: d})
	})
	panel.OnError(func(err error) {
		program.Send(tui.MalformedMsg{Err: err})
	})
	go func() {
		if err := panel.Start(ctx); err != nil {
			program.Send(tui.ClosedMsg{Err: err})
		}
	}()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// setupLogging sends logs to the log file, or to stderr in plain mode. The
// terminal UI owns the screen so without a log file logs are dropped. The
// returned func puts the previous output and level back.
func setupLogging(cfg Config) (func(), error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	previousOut := logrus.StandardLogger().Out
	previousLevel := logrus.GetLevel()
	restore := func() {
		logrus.SetOutput(previousOut)
		logrus.SetLevel(previousLevel)
	}
	logrus.SetLevel(level)

	closer := restore
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			restore()
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		logrus.SetOutput(f)
		closer = func() {
			restore()
			f.Close()
		}
	case cfg.Plain:
		logrus.SetOutput(os.Stderr)
	default:
		logrus.SetOutput(io.Discard)
	}
	return closer, nil
}

func init() {
	log = logrus.WithField("prefix", "alarmpanel")
	Formatter := new(prefixed.TextFormatter)
	Formatter.FullTimestamp = true
	Formatter.TimestampFormat = "2006-01-02 15:04:05"
	Formatter.ForceColors = false
	Formatter.ForceFormatting = false
	logrus.SetFormatter(Formatter)
	logrus.SetLevel(logrus.InfoLevel)
}

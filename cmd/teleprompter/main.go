package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/csheth/teleprompter/internal/config"
	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/importer"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/layout"
	"github.com/csheth/teleprompter/internal/scripts"
	"github.com/csheth/teleprompter/internal/session"
	"github.com/csheth/teleprompter/internal/settings"
	"github.com/csheth/teleprompter/internal/store"
	"github.com/csheth/teleprompter/internal/tui"
)

type rootOptions struct {
	configPath  string
	noAltScreen bool
	logFile     string
}

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg        *config.Config
	settings   *settings.Store
	scripts    *scripts.Store
	typesetter *layout.Typesetter
	estimator  *estimate.Estimator
	importer   *importer.Importer
}

func openApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	kv := store.NewFile(cfg.StorePath())
	typesetter := layout.NewTypesetter(layout.DefaultMetrics())
	return &app{
		cfg:        cfg,
		settings:   settings.NewStore(kv),
		scripts:    scripts.NewStore(kv),
		typesetter: typesetter,
		estimator:  estimate.New(typesetter),
		importer:   importer.New(importer.Options{CacheDir: cfg.CacheDir()}),
	}, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "teleprompter [file-or-url]",
		Short: "Terminal teleprompter with auto-scroll and remote control",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if len(args) == 1 {
				source = args[0]
			}
			return runInteractive(opts, source)
		},
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to teleprompter.yaml (default: user config dir)")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write debug logs to this file")

	cmd.AddCommand(
		newEstimateCommand(opts),
		newScriptsCommand(opts),
		newRemoteCommand(opts),
	)
	return cmd
}

func runInteractive(opts *rootOptions, source string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("stdout is not a TTY")
	}
	closeLog, err := setupLogging(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := openApp(opts)
	if err != nil {
		return err
	}
	sessions := session.NewManager(session.Options{
		Settings:  a.settings,
		Renderer:  a.typesetter,
		Estimator: a.estimator,
		Now:       time.Now,
	})
	model := tui.New(tui.Config{
		Scripts:       a.scripts,
		Settings:      a.settings,
		Sessions:      sessions,
		Typesetter:    a.typesetter,
		Estimator:     a.estimator,
		Importer:      a.importer,
		CellWidth:     a.cfg.CellWidth,
		CellHeight:    a.cfg.CellHeight,
		PreviewStyle:  a.cfg.PreviewStyle,
		AutoSaveDelay: time.Duration(a.cfg.AutoSaveDelayMS) * time.Millisecond,
		InitialSource: source,
	})

	programOpts := []tea.ProgramOption{}
	if !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, programOpts...)

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		go program.Send(tea.WindowSizeMsg{Width: w, Height: h})
	}

	server, err := startRemote(a.cfg.SocketPath, tui.RemoteHandler(program.Send))
	if err != nil {
		log.Printf("[main] remote control disabled: %v", err)
	} else {
		defer server.Close()
	}

	_, err = program.Run()
	return err
}

func startRemote(socketPath string, handler ipc.Handler) (*ipc.Server, error) {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return nil, err
	}
	server, err := ipc.Listen(socketPath, handler)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := server.Serve(); err != nil {
			log.Printf("[main] remote server: %v", err)
		}
	}()
	log.Printf("[main] remote control on %s", server.Addr())
	return server, nil
}

func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "teleprompter")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

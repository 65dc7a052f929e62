package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/csheth/teleprompter/internal/estimate"
	"github.com/csheth/teleprompter/internal/ipc"
	"github.com/csheth/teleprompter/internal/scripts"
	"github.com/csheth/teleprompter/internal/settings"
)

func newEstimateCommand(opts *rootOptions) *cobra.Command {
	var speed float64
	var font, width, height int
	cmd := &cobra.Command{
		Use:   "estimate <file-or-url>",
		Short: "Print how long a script takes to scroll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 40*time.Second)
			defer cancel()
			script, err := a.importer.Load(ctx, args[0])
			if err != nil {
				return err
			}
			current := a.settings.Load()
			if !cmd.Flags().Changed("speed") {
				speed = current.Speed
			}
			if !cmd.Flags().Changed("font") {
				font = current.FontSize
			}
			if !cmd.Flags().Changed("width") {
				width = current.WindowWidth
			}
			if !cmd.Flags().Changed("height") {
				height = current.WindowHeight
			}
			speed = settings.ClampSpeed(speed)
			font = settings.ClampFontSize(font)
			seconds, ok := a.estimator.Estimate(script.Content, font, speed, width, height)
			if !ok {
				return fmt.Errorf("cannot estimate %q at speed %.1f", args[0], speed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), estimate.FormatDuration(seconds))
			return nil
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 0, "scroll speed (default: saved setting)")
	cmd.Flags().IntVar(&font, "font", 0, "font level 1-14 (default: saved setting)")
	cmd.Flags().IntVar(&width, "width", 0, "viewport width in pixels (default: saved setting)")
	cmd.Flags().IntVar(&height, "height", 0, "viewport height in pixels (default: saved setting)")
	return cmd
}

func newScriptsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List saved scripts with their estimated duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			list, err := a.scripts.List()
			if err != nil {
				return err
			}
			s := a.settings.Load()
			return writeScriptTable(cmd.OutOrStdout(), list, func(content string) string {
				seconds, ok := a.estimator.Estimate(content, s.FontSize, s.Speed, s.WindowWidth, s.WindowHeight)
				if !ok {
					return "--:--"
				}
				return estimate.FormatDuration(seconds)
			})
		},
	}
}

func newRemoteCommand(opts *rootOptions) *cobra.Command {
	names := make([]string, 0, len(ipc.Kinds()))
	for _, k := range ipc.Kinds() {
		names = append(names, k.String())
	}
	return &cobra.Command{
		Use:       "remote <kind> [argument]",
		Short:     "Send a command to a running teleprompter",
		Long:      "Kinds: " + strings.Join(names, ", "),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			msg, err := buildMessage(args[0], args[1:], cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			return ipc.NewClient(a.cfg.SocketPath).Send(ctx, msg)
		},
	}
}

// buildMessage turns CLI arguments into a message. Text arguments of "-"
// are read from stdin.
func buildMessage(name string, args []string, stdin io.Reader) (ipc.Message, error) {
	kind, err := ipc.ParseKind(name)
	if err != nil {
		return ipc.Message{}, err
	}
	msg := ipc.Message{Kind: kind}
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	switch kind {
	case ipc.KindAdjustSpeed, ipc.KindAdjustFont:
		msg.Delta, err = strconv.ParseFloat(arg, 64)
		if err != nil {
			return msg, fmt.Errorf("%s needs a numeric delta: %w", kind, err)
		}
	case ipc.KindScroll:
		msg.Direction = arg
	case ipc.KindOpenDisplay, ipc.KindOpenPreview, ipc.KindSetText:
		if arg == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return msg, err
			}
			arg = string(data)
		}
		msg.Content = arg
	case ipc.KindUpdateWindowSize:
		w, h, ok := strings.Cut(arg, "x")
		if !ok {
			return msg, fmt.Errorf("%s needs WIDTHxHEIGHT, got %q", kind, arg)
		}
		if msg.Width, err = strconv.Atoi(w); err != nil {
			return msg, err
		}
		if msg.Height, err = strconv.Atoi(h); err != nil {
			return msg, err
		}
	}
	return msg, msg.Validate()
}

var (
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	tableHeader = tableCell.Copy().Bold(true)
)

func writeScriptTable(out io.Writer, list []scripts.Script, label func(string) string) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "no saved scripts")
		return err
	}
	// Columns are sized to their widest rendered cell and the truncation
	// tail takes one of those columns, so cells need padding to print whole.
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return tableHeader
			}
			return tableCell
		}).
		Headers("ID", "TITLE", "ESTIMATE")
	for _, s := range list {
		t.Row(s.ID, s.Title, label(s.Content))
	}
	_, err := fmt.Fprintln(out, t.String())
	return err
}

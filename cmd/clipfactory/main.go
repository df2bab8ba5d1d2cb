// Command clipfactory runs an interactive clip factory session.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/calebmoore/clipfactory/internal/command"
	"github.com/calebmoore/clipfactory/internal/engine"
	"github.com/calebmoore/clipfactory/internal/entropy"
	"github.com/calebmoore/clipfactory/internal/journal"
	"github.com/calebmoore/clipfactory/internal/notify"
	"github.com/calebmoore/clipfactory/internal/tui"
)

var (
	seed         int64
	tickInterval time.Duration
	journalPath  string
	simplexNoise bool
	headless     bool
)

const snapshotEvery = 60 // ticks between journal snapshots

func main() {
	rootCmd := &cobra.Command{
		Use:   "clipfactory",
		Short: "An incremental clip factory simulation",
		Long: `clipfactory runs a single-player factory session: wire goes in,
clips come out, and the market decides how fast they sell. Type 'help'
in-session for the command reference.`,
		Run: runSession,
	}

	rootCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.Flags().DurationVar(&tickInterval, "tick", time.Second, "simulation tick period")
	rootCmd.Flags().StringVar(&journalPath, "journal", "", "record the session transcript to this SQLite file")
	rootCmd.Flags().BoolVar(&simplexNoise, "simplex-noise", false, "use smooth simplex drift for demand noise instead of uniform")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "read commands from stdin instead of running the TUI")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSession(cmd *cobra.Command, args []string) {
	logLevel := slog.LevelWarn
	if headless {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if seed == 0 {
		seed = entropy.CryptoSeed()
	}
	var src entropy.Source
	if simplexNoise {
		src = entropy.Simplex(seed)
	} else {
		src = entropy.Seeded(seed)
	}

	eng := engine.New(src)

	var sinks notify.Multi
	var jrnl *journal.Journal
	if journalPath != "" {
		var err error
		jrnl, err = journal.Open(journalPath, func() uint64 { return eng.View().Elapsed })
		if err != nil {
			slog.Error("cannot open journal", "path", journalPath, "error", err)
			os.Exit(1)
		}
		defer jrnl.Close()
		sinks = append(sinks, jrnl)
		slog.Info("journal recording", "path", journalPath, "session", jrnl.SessionID())
	}

	onTick := func(res engine.TickResult) {
		if jrnl != nil && res.Elapsed%snapshotEvery == 0 {
			if err := jrnl.Snapshot(eng.View()); err != nil {
				slog.Warn("snapshot failed", "error", err)
			}
		}
	}

	if headless {
		runHeadless(eng, sinks, onTick)
	} else {
		runTUI(eng, sinks, onTick)
	}

	printSummary(eng.View())
}

func runTUI(eng *engine.Engine, extra notify.Multi, onTick func(engine.TickResult)) {
	log := &tui.Log{}
	sink := notify.Multi(append([]notify.Sink{log}, extra...))
	interp := command.New(eng, sink)

	model := tui.New(eng, interp, log, sink, tickInterval, onTick)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		slog.Error("session ended abnormally", "error", err)
		os.Exit(1)
	}
}

// runHeadless drives the session from stdin. Ticks and input lines funnel
// into one loop so every engine call stays serialized.
func runHeadless(eng *engine.Engine, extra notify.Multi, onTick func(engine.TickResult)) {
	sink := notify.Multi(append([]notify.Sink{colorSink{}}, extra...))
	interp := command.New(eng, sink)
	render := notify.Renderer{Sink: sink}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	fmt.Println("clipfactory session started — type 'help' for commands, Ctrl+D to quit")
	for {
		select {
		case <-ticker.C:
			res := eng.Tick()
			render.TickResult(res)
			if onTick != nil {
				onTick(res)
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			interp.Dispatch(line)
		}
	}
}

// colorSink prints notifications to stdout with severity coloring.
type colorSink struct{}

func (colorSink) Notify(n notify.Notification) {
	line := fmt.Sprintf("[%s] %s", n.Channel, n.Message)
	switch {
	case n.Channel == notify.ChannelOperator:
		color.Cyan("> %s", n.Message)
	case n.Severity == notify.SeverityWarning:
		color.Yellow("%s", line)
	case n.Severity == notify.SeveritySuccess:
		color.Green("%s", line)
	default:
		fmt.Println(line)
	}
}

func printSummary(v engine.View) {
	fmt.Println("\nsession summary:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Metric", "Value"}),
	)
	rows := [][]string{
		{"shift length", engine.SimClock(v.Elapsed)},
		{"clips made", humanize.Comma(int64(v.ClipsMade))},
		{"clips sold", humanize.Comma(int64(v.ClipsSold))},
		{"funds", "$" + humanize.CommafWithDigits(v.Funds, 2)},
		{"clip price", fmt.Sprintf("$%.2f", v.Price)},
		{"autoclippers", fmt.Sprintf("%d", v.Clippers)},
		{"factories", fmt.Sprintf("%d", v.Factories)},
		{"trust", fmt.Sprintf("%d", v.Trust)},
	}
	for _, row := range rows {
		_ = table.Append(row)
	}
	_ = table.Render()
}

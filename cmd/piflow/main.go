// Package main provides the CLI entrypoint for piflow.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/piflow/internal/config"
	"github.com/verte-zerg/piflow/internal/digits"
	"github.com/verte-zerg/piflow/internal/game"
	"github.com/verte-zerg/piflow/internal/logging"
	"github.com/verte-zerg/piflow/internal/model"
	"github.com/verte-zerg/piflow/internal/progress"
	"github.com/verte-zerg/piflow/internal/record"
	"github.com/verte-zerg/piflow/internal/stats"
	"github.com/verte-zerg/piflow/internal/statsui"
	"github.com/verte-zerg/piflow/internal/store"
	"github.com/verte-zerg/piflow/internal/tui"
)

const (
	defaultHintDigits  = 10
	defaultWindow      = 20
	defaultCurveWindow = 20
	defaultWeakTop     = 10
	defaultDigitsTo    = 100
	defaultLogLevel    = "info"
)

const dotenvPath = ".env"

var (
	practiceHintDigits int
	practiceWindow     int
	practiceDigits     int
	practiceMnemonics  bool

	statsPlain       bool
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakTop     int

	digitsFrom int
	digitsTo   int

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "piflow",
		Short:         "TUI trainer for memorizing the digits of π",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceHintDigits, "hint-digits", defaultHintDigits, "digits revealed after a mistake")
	rootCmd.Flags().IntVar(&practiceWindow, "window", defaultWindow, "typed digits kept visible (0 shows all)")
	rootCmd.Flags().IntVar(&practiceDigits, "digits", digits.DefaultLength, "number of reference digits")
	rootCmd.Flags().BoolVar(&practiceMnemonics, "mnemonics", true, "show mnemonic phrases in practice mode")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDigitsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

// env is the environment and file configuration shared by all commands.
type env struct {
	vars config.EnvConfig
	file config.FileConfig
}

func loadEnv() (env, error) {
	vars, err := config.LoadEnv(dotenvPath)
	if err != nil {
		return env{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return env{}, fmt.Errorf("failed to load config: %w", err)
	}
	return env{vars: vars, file: fileCfg}, nil
}

func (e env) logLevel() string {
	if e.vars.LogLevel != "" {
		return e.vars.LogLevel
	}
	if e.file.Log.Level != nil {
		return *e.file.Log.Level
	}
	return defaultLogLevel
}

func (e env) openStore(log zerolog.Logger) (*store.Store, func(), error) {
	path := e.vars.ResolveDBPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened db")
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}
	return st, closeFn, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "hint-digits", &practiceHintDigits, e.file.Practice.HintDigits)
	applyIntConfig(cmd, "window", &practiceWindow, e.file.Practice.Window)
	applyIntConfig(cmd, "digits", &practiceDigits, e.file.Practice.Digits)
	applyBoolConfig(cmd, "mnemonics", &practiceMnemonics, e.file.Practice.Mnemonics)

	cfg := model.Config{
		HintDigits: practiceHintDigits,
		Window:     practiceWindow,
		Digits:     practiceDigits,
		Mnemonics:  practiceMnemonics,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	log, logCloser, err := logging.OpenFile(e.vars.ResolveLogPath(), e.logLevel())
	if err != nil {
		return err
	}
	defer func() {
		_ = logCloser.Close()
	}()

	st, closeStore, err := e.openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	tracker := progress.NewTracker(st, e.vars.RecordKey, progress.WithLogger(log))
	if err := tracker.Load(context.Background()); err != nil {
		return err
	}

	source := sourceFor(cfg.Digits)
	machine := game.NewMachine(source, tracker)
	log.Info().Int("digits", source.Len()).Int("best", tracker.Record().MaxDigits).Msg("practice started")

	m := tui.NewModel(cfg, machine, tracker, source, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// sourceFor avoids recomputing the shared default source.
func sourceFor(n int) *digits.Source {
	if n == digits.DefaultLength {
		return digits.Default()
	}
	return digits.New(n)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", defaultWeakTop, "number of weak positions to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, e.file.Stats.CurveWindow)
	applyIntConfig(cmd, "weak-top", &statsWeakTop, e.file.Stats.WeakTop)

	cfg, err := buildStatsConfig(statsSince, statsLast, statsCurveWindow, statsWeakTop)
	if err != nil {
		return err
	}

	log := logging.Console(cmd.ErrOrStderr(), e.logLevel())
	st, closeStore, err := e.openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	source := digits.Default()
	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, e.vars.RecordKey, cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		opts := stats.ReportOptions{
			CurveWindow: cfg.CurveWindow,
			WeakTop:     cfg.WeakTop,
			Width:       stats.TerminalWidth(out),
			Now:         time.Now(),
		}
		return stats.RenderReport(out, report, source, opts)
	}

	m := statsui.NewModel(st, e.vars.RecordKey, cfg, source)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(since string, last, curveWindow, weakTop int) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	if weakTop < 0 {
		return model.StatsConfig{}, fmt.Errorf("--weak-top must be >= 0")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        last,
		CurveWindow: curveWindow,
		WeakTop:     weakTop,
	}, nil
}

func newDigitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digits",
		Short: "Print reference digits of π",
		Args:  cobra.NoArgs,
		RunE:  runDigitsCmd,
	}
	cmd.Flags().IntVar(&digitsFrom, "from", 0, "first position (0 is the first digit after the point)")
	cmd.Flags().IntVar(&digitsTo, "to", defaultDigitsTo, "end position (exclusive)")
	return cmd
}

func runDigitsCmd(cmd *cobra.Command, _ []string) error {
	if digitsFrom < 0 || digitsTo < digitsFrom {
		return fmt.Errorf("--from and --to must satisfy 0 <= from <= to")
	}
	if digitsTo > digits.MaxLength {
		return fmt.Errorf("--to must be <= %d", digits.MaxLength)
	}
	source := sourceFor(max(digitsTo, digits.DefaultLength))
	return writeDigits(cmd.OutOrStdout(), source, digitsFrom, digitsTo)
}

// writeDigits prints digits in blocks of ten, five blocks per line. Block
// boundaries are aligned to absolute positions.
func writeDigits(w io.Writer, source *digits.Source, from, to int) error {
	span := source.Range(from, to)
	if span == "" {
		return nil
	}
	var b strings.Builder
	for i := 0; i < len(span); i++ {
		pos := from + i
		if i > 0 {
			switch {
			case pos%50 == 0:
				b.WriteByte('\n')
			case pos%10 == 0:
				b.WriteByte(' ')
			}
		}
		b.WriteByte(span[i])
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the stored record as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	log := logging.Console(cmd.ErrOrStderr(), e.logLevel())
	st, closeStore, err := e.openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()
	return exportRecord(cmd.OutOrStdout(), st, e.vars.RecordKey, log)
}

func exportRecord(w io.Writer, st *store.Store, key string, log zerolog.Logger) error {
	tracker := progress.NewTracker(st, key, progress.WithLogger(log))
	if err := tracker.Load(context.Background()); err != nil {
		return err
	}
	raw, err := record.EncodeIndent(tracker.Record())
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(raw)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the personal-best record",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset without --yes")
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	log := logging.Console(cmd.ErrOrStderr(), e.logLevel())
	st, closeStore, err := e.openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	tracker := progress.NewTracker(st, e.vars.RecordKey, progress.WithLogger(log))
	if err := tracker.ResetRecord(context.Background()); err != nil {
		return err
	}
	log.Info().Str("key", e.vars.RecordKey).Msg("record reset")
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# piflow configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# hint-digits = %d        # Digits revealed after a mistake
# window = %d             # Typed digits kept visible (0 shows all)
# digits = %d          # Number of reference digits (max %d)
# mnemonics = true        # Show mnemonic phrases in practice mode

[stats]
# curve-window = %d       # Moving average window
# weak-top = %d           # Number of weak positions to list

[log]
# level = %q          # debug, info, warn or error
`,
		defaultHintDigits,
		defaultWindow,
		digits.DefaultLength,
		digits.MaxLength,
		defaultCurveWindow,
		defaultWeakTop,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.HintDigits < 0 {
		return fmt.Errorf("--hint-digits must be >= 0")
	}
	if cfg.Window < 0 {
		return fmt.Errorf("--window must be >= 0")
	}
	if cfg.Digits <= 0 {
		return fmt.Errorf("--digits must be > 0")
	}
	if cfg.Digits > digits.MaxLength {
		return fmt.Errorf("--digits must be <= %d", digits.MaxLength)
	}
	return nil
}

// Package main provides the CLI entrypoint for texuddy.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/texuddy/texuddy/internal/catalog"
	"github.com/texuddy/texuddy/internal/config"
	"github.com/texuddy/texuddy/internal/logging"
	"github.com/texuddy/texuddy/internal/model"
	"github.com/texuddy/texuddy/internal/retype"
	"github.com/texuddy/texuddy/internal/stats"
	"github.com/texuddy/texuddy/internal/statsui"
	"github.com/texuddy/texuddy/internal/store"
	"github.com/texuddy/texuddy/internal/tui"
)

const (
	defaultCurveWindow = 10
	minTableCell       = 12
)

var (
	practiceAge        int
	practiceDifficulty string
	practiceCategory   string
	practiceFontSize   int
	practiceTouch      bool
	practiceCatalog    string

	exercisesAll bool

	importID         string
	importTitle      string
	importCategory   string
	importFrom       string
	importDifficulty string
	importAge        int
	importForce      bool

	statsCategory    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	profileName string
	profileAge  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "texuddy",
		Short:         "Retype expert replies to real-world messages",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}
	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newUnskipCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&practiceAge, "age", 0, "learner age; hides exercises meant for older learners (0: use profile)")
	cmd.Flags().StringVar(&practiceDifficulty, "difficulty", "", "only easy, medium or hard exercises")
	cmd.Flags().StringVar(&practiceCategory, "category", "", "only exercises in this category")
	cmd.Flags().IntVar(&practiceFontSize, "font-size", retype.DefaultFontSize,
		fmt.Sprintf("text size in px (%d-%d)", retype.MinFontSize, retype.MaxFontSize))
	cmd.Flags().BoolVar(&practiceTouch, "touch", false, "type through an input field with an on-screen keyboard")
	cmd.Flags().StringVar(&practiceCatalog, "catalog", "", "directory with user exercise catalogs")
}

// env holds what every command opens: config, logger and store.
type env struct {
	file   config.FileConfig
	logger *zap.Logger
	st     *store.Store
	ps     *store.ProgressStore
	closer io.Closer
}

// openEnv loads the config and opens the store. console receives warnings
// when the command does not own the terminal.
func openEnv(console io.Writer) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, closer := logging.New(fileCfg.Log, console)
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &env{
		file:   fileCfg,
		logger: logger,
		st:     st,
		ps:     store.NewProgressStore(st, logger),
		closer: closer,
	}, nil
}

func (e *env) Close() {
	if err := e.st.Close(); err != nil {
		e.logger.Error("failed to close db", zap.Error(err))
	}
	if err := e.closer.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(nil)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := context.Background()

	practice := e.file.Practice
	applyIntConfig(cmd, "age", &practiceAge, practice.Age)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, practice.Difficulty)
	applyStringConfig(cmd, "category", &practiceCategory, practice.Category)
	applyIntConfig(cmd, "font-size", &practiceFontSize, practice.FontSize)
	applyBoolConfig(cmd, "touch", &practiceTouch, practice.Touch)
	applyStringConfig(cmd, "catalog", &practiceCatalog, practice.Catalog)

	profile := store.Load(ctx, e.ps, store.KeyProfile, model.Profile{})
	if practiceAge == 0 {
		practiceAge = profile.Age
	}
	if !cmd.Flags().Changed("font-size") && practice.FontSize == nil {
		stored := store.Load(ctx, e.ps, store.KeyFontSize, retype.DefaultFontSize)
		practiceFontSize = int(retype.ClampFontSize(stored))
	}
	if cmd.Flags().Changed("touch") {
		if err := store.Save(ctx, e.ps, store.KeyTouch, practiceTouch); err != nil {
			e.logger.Warn("failed to save touch mode", zap.Error(err))
		}
	} else if practice.Touch == nil {
		practiceTouch = store.Load(ctx, e.ps, store.KeyTouch, false)
	}
	if practiceCatalog == "" {
		practiceCatalog = config.DefaultCatalogDir()
	}

	cfg := model.Config{
		Age:        practiceAge,
		Difficulty: model.Difficulty(strings.ToLower(strings.TrimSpace(practiceDifficulty))),
		Category:   strings.TrimSpace(practiceCategory),
		FontSize:   practiceFontSize,
		Touch:      practiceTouch,
		CatalogDir: practiceCatalog,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	reload := func() (*catalog.Catalog, error) { return catalog.Load(cfg.CatalogDir) }
	cat, err := reload()
	if err != nil {
		return fmt.Errorf("failed to load exercises: %w", err)
	}
	opts := tui.Options{
		Config:   cfg,
		Profile:  profile,
		Catalog:  cat,
		Sessions: e.st,
		Progress: e.ps,
		Logger:   e.logger,
		Reload:   reload,
	}
	changes, watcher, err := catalog.Watch(cfg.CatalogDir)
	if err != nil {
		e.logger.Warn("catalog changes will not be picked up", zap.String("dir", cfg.CatalogDir), zap.Error(err))
	} else {
		defer func() {
			_ = watcher.Close()
		}()
		opts.Changes = changes
	}

	e.logger.Info("practice started",
		zap.Int("exercises", cat.Len()),
		zap.Int("age", cfg.Age),
		zap.String("difficulty", string(cfg.Difficulty)),
		zap.String("category", cfg.Category),
		zap.Bool("touch", cfg.Touch),
	)
	program := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newExercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List available exercises",
		Args:  cobra.NoArgs,
		RunE:  runExercisesCmd,
	}
	addPracticeFlags(cmd)
	cmd.Flags().BoolVar(&exercisesAll, "all", false, "include completed and skipped exercises")
	return cmd
}

func runExercisesCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := context.Background()

	practice := e.file.Practice
	applyIntConfig(cmd, "age", &practiceAge, practice.Age)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, practice.Difficulty)
	applyStringConfig(cmd, "category", &practiceCategory, practice.Category)
	applyStringConfig(cmd, "catalog", &practiceCatalog, practice.Catalog)
	if practiceAge == 0 {
		practiceAge = store.Load(ctx, e.ps, store.KeyProfile, model.Profile{}).Age
	}
	if practiceCatalog == "" {
		practiceCatalog = config.DefaultCatalogDir()
	}

	cat, err := catalog.Load(practiceCatalog)
	if err != nil {
		return fmt.Errorf("failed to load exercises: %w", err)
	}
	filter := catalog.Filter{
		Age:        practiceAge,
		Difficulty: model.Difficulty(strings.ToLower(strings.TrimSpace(practiceDifficulty))),
		Category:   strings.TrimSpace(practiceCategory),
	}
	if !exercisesAll {
		completed, err := e.st.CompletedExerciseIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to load completed exercises: %w", err)
		}
		skipped, err := e.st.SkippedExerciseIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to load skipped exercises: %w", err)
		}
		filter.Exclude = []map[string]struct{}{completed, skipped}
	}

	exercises := cat.Select(filter)
	if len(exercises) == 0 {
		logErrln("No exercises match.")
		return nil
	}
	lines := exerciseTable(exercises, stats.TerminalWidth())
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func exerciseTable(exercises []model.Exercise, width int) []string {
	headers := []string{"ID", "Title", "Category", "Level", "Age", "Words"}
	rows := make([][]string, 0, len(exercises))
	for _, ex := range exercises {
		age := "-"
		if ex.Age > 0 {
			age = strconv.Itoa(ex.Age)
		}
		rows = append(rows, []string{
			ex.ID,
			ex.Title,
			ex.Category,
			string(ex.Difficulty),
			age,
			strconv.Itoa(retype.NewText(ex.Response).WordCount()),
		})
	}
	maxCell := max(minTableCell, width/4)
	return stats.FormatTable(headers, rows, map[int]bool{4: true, 5: true}, maxCell)
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add a YAML catalog or a plain text exercise",
		Long: "Copies a YAML exercise catalog into the user catalog directory.\n" +
			"With --id the file is read as plain text and becomes the reply to retype.",
		Args: cobra.ExactArgs(1),
		RunE: runImportCmd,
	}
	cmd.Flags().StringVar(&importID, "id", "", "treat the file as plain text and store it under this id")
	cmd.Flags().StringVar(&importTitle, "title", "", "title for a plain text exercise")
	cmd.Flags().StringVar(&importCategory, "category", "", "category for a plain text exercise")
	cmd.Flags().StringVar(&importFrom, "from", "", "who sent the message being answered")
	cmd.Flags().StringVar(&importDifficulty, "difficulty", string(model.DifficultyMedium), "difficulty for a plain text exercise")
	cmd.Flags().IntVar(&importAge, "age", 0, "minimum learner age for a plain text exercise")
	cmd.Flags().BoolVar(&importForce, "force", false, "overwrite an existing catalog file")
	cmd.Flags().StringVar(&practiceCatalog, "catalog", "", "directory with user exercise catalogs")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	dir := practiceCatalog
	if dir == "" {
		dir = config.DefaultCatalogDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	cat, err := catalog.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load exercises: %w", err)
	}

	src := args[0]
	if importID == "" {
		path, n, err := catalog.Import(cat, src, dir, importForce)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s to %s\n", n, pluralize(n, "exercise"), path)
		return err
	}

	text, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	ex := model.Exercise{
		ID:         strings.TrimSpace(importID),
		Title:      strings.TrimSpace(importTitle),
		Category:   strings.TrimSpace(importCategory),
		From:       strings.TrimSpace(importFrom),
		Difficulty: model.Difficulty(strings.ToLower(strings.TrimSpace(importDifficulty))),
		Age:        importAge,
	}
	path, err := catalog.ImportText(cat, ex, string(text), dir, importForce)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s to %s\n", ex.ID, path)
	return err
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress and stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsCategory, "category", "", "category filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Category:    strings.TrimSpace(statsCategory),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.Close()

	if statsPlain {
		return renderPlainStats(cmd.OutOrStdout(), e.st, cfg, stats.TerminalWidth())
	}
	program := tea.NewProgram(statsui.NewModel(e.st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, src stats.SessionSource, cfg model.StatsConfig, width int) error {
	report, err := stats.BuildReport(context.Background(), src, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow, max(10, width-20)); err != nil {
		return err
	}
	return stats.RenderCategoryTable(w, report.Categories)
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the learner profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&profileName, "name", "", "learner name")
	cmd.Flags().IntVar(&profileAge, "age", 0, "learner age")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := context.Background()

	profile := store.Load(ctx, e.ps, store.KeyProfile, model.Profile{})
	changed := false
	if cmd.Flags().Changed("name") {
		profile.Name = strings.TrimSpace(profileName)
		changed = true
	}
	if cmd.Flags().Changed("age") {
		if profileAge < 0 {
			return fmt.Errorf("--age must be >= 0")
		}
		profile.Age = profileAge
		changed = true
	}
	if changed {
		if err := store.Save(ctx, e.ps, store.KeyProfile, profile); err != nil {
			return err
		}
		e.logger.Info("profile updated", zap.String("name", profile.Name), zap.Int("age", profile.Age))
	}
	return printProfile(cmd.OutOrStdout(), profile)
}

func printProfile(w io.Writer, p model.Profile) error {
	name := p.Name
	if name == "" {
		name = "(not set)"
	}
	age := "(not set)"
	if p.Age > 0 {
		age = strconv.Itoa(p.Age)
	}
	_, err := fmt.Fprintf(w, "Name: %s\nAge: %s\n", name, age)
	return err
}

func newUnskipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unskip <id>...",
		Short: "Return skipped exercises to the practice list",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runUnskipCmd,
	}
}

func runUnskipCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(os.Stderr)
	if err != nil {
		return err
	}
	defer e.Close()
	for _, id := range args {
		if err := e.st.UnskipExercise(context.Background(), id); err != nil {
			return fmt.Errorf("failed to unskip %s: %w", id, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Unskipped %s\n", id); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# texuddy configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# age = 12                # Hide exercises meant for older learners
# difficulty = "easy"     # easy, medium or hard
# category = "Marketing"  # Only this category
# font-size = %d          # Text size in px (%d-%d)
# touch = false           # On-screen keyboard and input field
# catalog = %q

[log]
# level = "info"          # debug, info, warn or error
# file = %q
# max-size = 10           # Megabytes before rotation
# max-backups = 3
# max-age = 28            # Days
`,
		retype.DefaultFontSize,
		retype.MinFontSize,
		retype.MaxFontSize,
		config.DefaultCatalogDir(),
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Age < 0 {
		return fmt.Errorf("--age must be >= 0")
	}
	if cfg.Difficulty != "" && !cfg.Difficulty.Valid() {
		return fmt.Errorf("--difficulty must be easy, medium or hard")
	}
	if cfg.FontSize < retype.MinFontSize || cfg.FontSize > retype.MaxFontSize {
		return fmt.Errorf("--font-size must be between %d and %d", retype.MinFontSize, retype.MaxFontSize)
	}
	return nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}

func logErrln(args ...any) {
	_, _ = fmt.Fprintln(os.Stderr, args...)
}

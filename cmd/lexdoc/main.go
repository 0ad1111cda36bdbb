package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lexdoc"
	lexslog "github.com/fwojciec/lexdoc/slog"
	"github.com/fwojciec/lexdoc/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Index       lexdoc.DocumentIndex
	Checkpoints lexdoc.CheckpointStore
	Records     lexdoc.RecordService

	// Overrides for end-to-end testing; built from settings when nil.
	Fetcher lexdoc.Fetcher
	Storage lexdoc.Storage
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Fetcher: m.Fetcher,
		Storage: m.Storage,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lexdoc"),
		kong.Description("Harvest legal acts from the EUR-Lex Official Journal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lexdoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.ConfigPath = cli.Config

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if m.DBPath != ":memory:" {
		_ = os.MkdirAll(filepath.Dir(m.DBPath), 0755)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LEXDOC_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Index = sqlite.NewDocumentIndex(m.DB)
	m.Checkpoints = sqlite.NewCheckpointStore(m.DB)
	m.Records = lexslog.NewLoggingRecordService(sqlite.NewRecordService(m.DB), deps.Logger)
	deps.DB = m.DB
	deps.Index = m.Index
	deps.Checkpoints = m.Checkpoints
	deps.Records = m.Records

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("LEXDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "lexdoc.db"
	}
	return filepath.Join(home, ".lexdoc", "lexdoc.db")
}

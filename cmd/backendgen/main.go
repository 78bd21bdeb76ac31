package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tordrt/backendgen"
	"github.com/tordrt/backendgen/internal/config"
)

var (
	configPath string
	outputDir  string
	mongoURI   string
	port       int
	noAltList  bool
	strict     bool
	dryRun     bool
	install    bool
	logLevel   string

	dbURL         string
	importOutput  string
	tables        string
	excludeTables string
	schemaName    string

	verifyNoAltList bool
)

var rootCmd = &cobra.Command{
	Use:   "backendgen <projectName> <schemaFilePath>",
	Short: "Generate an Express/Mongoose backend from a schema file",
	Long: `backendgen reads a JSON or YAML schema describing data models and writes a Node.js project
with a Mongoose model, a CRUD controller and an express router per model.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var importCmd = &cobra.Command{
	Use:          "import",
	Short:        "Write a schema file from an existing database",
	Long:         `Import introspects a PostgreSQL, MySQL or SQLite database and writes a schema document that backendgen can generate a project from.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runImport,
}

var verifyCmd = &cobra.Command{
	Use:          "verify <projectDir>",
	Short:        "Check the route tables of a generated project",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runVerify,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default: info)")

	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Parent directory of the generated project (default: current directory)")
	rootCmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string written to .env (default: mongodb://localhost:27017/<projectName>)")
	rootCmd.Flags().IntVar(&port, "port", 0, "Port written to .env and used as the server.js fallback (default: 5000)")
	rootCmd.Flags().BoolVar(&noAltList, "no-alt-list", false, "Omit the GET /getAll route and its handler")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Warn about defaults, enums and refs that do not match their field")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the project without writing files")
	rootCmd.Flags().BoolVar(&install, "install", false, "Run npm install in the generated project")

	importCmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output file (default: stdout)")
	importCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	importCmd.Flags().StringVar(&excludeTables, "exclude", "", "Tables to leave out (comma-separated, optional)")
	importCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, database from URL for MySQL)")
	_ = importCmd.MarkFlagRequired("db-url")

	verifyCmd.Flags().BoolVar(&verifyNoAltList, "no-alt-list", false, "The project was generated without GET /getAll")

	rootCmd.AddCommand(importCmd, verifyCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	result, err := backendgen.Generate(cmd.Context(), cfg, &backendgen.Options{Logger: logger})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

// loadConfig merges the config file, the environment, the positional
// arguments and the flags the user set, in increasing precedence
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.ProjectName = args[0]
	}
	if len(args) > 1 {
		cfg.SchemaPath = args[1]
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("mongo-uri") {
		cfg.MongoURI = mongoURI
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("no-alt-list") {
		cfg.AltList = !noAltList
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if flags.Changed("install") {
		cfg.Install = install
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if cfg.ProjectName == "" || cfg.SchemaPath == "" {
		return nil, fmt.Errorf("usage: backendgen <projectName> <schemaFilePath>")
	}

	return cfg, nil
}

func printSummary(w io.Writer, result *backendgen.Result) {
	verb := "Generated"
	if !result.Written {
		verb = "Would generate"
	}
	fmt.Fprintf(w, "%s %d model(s) in %s\n", verb, result.ModelCount(), result.ProjectDir)

	for _, skipped := range result.Skipped {
		fmt.Fprintf(w, "Skipped %s: %s\n", skipped.Name, strings.Join(skipped.Reasons, "; "))
	}
	if !result.Written {
		for _, a := range result.Artifacts {
			fmt.Fprintf(w, "  %s\n", a.Path)
		}
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), logLevel)

	opts := &backendgen.ImportOptions{
		Tables:        parseTableList(tables),
		ExcludeTables: parseTableList(excludeTables),
		SchemaName:    schemaName,
	}

	// Single-file output
	writer := cmd.OutOrStdout()
	if importOutput != "" {
		f, err := os.Create(importOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	return backendgen.Import(cmd.Context(), dbURL, opts, writer, logger)
}

func runVerify(cmd *cobra.Command, args []string) error {
	reports, err := backendgen.Verify(args[0], !verifyNoAltList)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("no route tables found in %s", args[0])
	}

	failed := 0
	for _, r := range reports {
		fmt.Fprintln(cmd.OutOrStdout(), r.String())
		if !r.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d route tables do not match the generated endpoints", failed, len(reports))
	}
	return nil
}

// parseTableList splits a comma-separated table list
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}

	list := strings.Split(s, ",")
	for i, t := range list {
		list[i] = strings.TrimSpace(t)
	}
	return list
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

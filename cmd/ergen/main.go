package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ergen-io/ergen"
	"github.com/ergen-io/ergen/internal/config"
	"github.com/ergen-io/ergen/internal/introspect"
	"github.com/ergen-io/ergen/internal/schema"
)

var (
	verbose    bool
	configPath string

	// generate flags
	namespace   string
	contextName string
	entitiesOut string
	mappingOut  string
	exclude     string

	// diagram flags
	dbURL      string
	mysqlURL   string
	sqlitePath string
	schemaName string
	tables     string
	diagramOut string
)

var log zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "ergen",
	Short: "Generate EF Core entities from Mermaid ER diagrams",
	Long: `ergen converts Mermaid ER diagram text into C# source: entity classes
and an EF Core DbContext mapping configuration. It can also produce a
Mermaid diagram from a live PostgreSQL, MySQL, or SQLite database.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().Timestamp().Logger()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [diagram-file]",
	Short: "Generate C# entities and DbContext from a diagram",
	Long: `Reads Mermaid ER diagram text from a file (or stdin when no file is
given) and writes the two generated artifacts. Without output paths both
artifacts go to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Produce a Mermaid ER diagram from a live database",
	Long: `Introspects a PostgreSQL, MySQL, or SQLite database and writes its
schema as Mermaid ER diagram text, suitable as input for generate. When no
database flag is given, DATABASE_URL from the environment (or a .env file)
is used as a PostgreSQL connection string.`,
	RunE: runDiagram,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	generateCmd.Flags().StringVar(&configPath, "config", "", "Config file (default: .ergen.yaml if present)")
	generateCmd.Flags().StringVar(&namespace, "namespace", "", "C# namespace for generated code")
	generateCmd.Flags().StringVar(&contextName, "context", "", "DbContext class name")
	generateCmd.Flags().StringVar(&entitiesOut, "entities-out", "", "Output file for entity classes (default: stdout)")
	generateCmd.Flags().StringVar(&mappingOut, "mapping-out", "", "Output file for the DbContext (default: stdout)")
	generateCmd.Flags().StringVar(&exclude, "exclude", "", "Entities to exclude (comma-separated)")

	diagramCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	diagramCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string (DSN format)")
	diagramCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	diagramCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	diagramCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	diagramCmd.Flags().StringVarP(&diagramOut, "output", "o", "", "Output file (default: stdout)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diagramCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readDiagram(args)
	if err != nil {
		return err
	}

	opts := &ergen.Options{
		Namespace:       firstNonEmpty(namespace, cfg.Namespace),
		ContextName:     firstNonEmpty(contextName, cfg.Context),
		ExcludeEntities: splitList(firstNonEmpty(exclude, strings.Join(cfg.Exclude, ","))),
	}

	start := time.Now()
	out, err := ergen.GenerateFromDiagram(text, opts)
	if err != nil {
		return fmt.Errorf("failed to generate: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("generation finished")

	entitiesPath := firstNonEmpty(entitiesOut, cfg.EntitiesOut)
	mappingPath := firstNonEmpty(mappingOut, cfg.MappingOut)

	if entitiesPath == "" && mappingPath == "" {
		fmt.Print(out.Entities)
		fmt.Println()
		fmt.Print(out.Mapping)
		return nil
	}

	if err := writeArtifact(entitiesPath, out.Entities); err != nil {
		return err
	}
	if err := writeArtifact(mappingPath, out.Mapping); err != nil {
		return err
	}
	return nil
}

func runDiagram(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// A .env file may supply DATABASE_URL; absence is fine.
	_ = godotenv.Load()
	if dbURL == "" && mysqlURL == "" && sqlitePath == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	dbCount := 0
	for _, v := range []string{dbURL, mysqlURL, sqlitePath} {
		if v != "" {
			dbCount++
		}
	}
	if dbCount == 0 {
		return fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified (or DATABASE_URL set)")
	}
	if dbCount > 1 {
		return fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	s, err := extract(ctx, splitList(tables))
	if err != nil {
		return err
	}
	log.Debug().
		Int("entities", len(s.Entities)).
		Int("relationships", len(s.Relationships)).
		Msg("schema extracted")

	writer := io.Writer(os.Stdout)
	if diagramOut != "" {
		f, err := os.Create(diagramOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close output file")
			}
		}()
		writer = f
	}

	if err := introspect.WriteMermaid(writer, s); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	return nil
}

func extract(ctx context.Context, tableList []string) (*schema.Schema, error) {
	switch {
	case sqlitePath != "":
		client, err := introspect.NewSQLiteClient(ctx, sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close SQLite connection")
			}
		}()
		return introspect.NewSQLiteExtractor(client).ExtractSchema(ctx, tableList)

	case mysqlURL != "":
		connString := strings.TrimPrefix(mysqlURL, "mysql://")
		client, err := introspect.NewMySQLClient(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close MySQL connection")
			}
		}()
		name := schemaName
		if name == "" {
			name, err = introspect.ParseDatabaseName(connString)
			if err != nil {
				return nil, fmt.Errorf("failed to determine database name: %w (specify --schema)", err)
			}
		}
		return introspect.NewMySQLExtractor(client, name).ExtractSchema(ctx, tableList)

	default:
		client, err := introspect.NewPostgresClient(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer func() {
			if err := client.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to close PostgreSQL connection")
			}
		}()
		name := schemaName
		if name == "" {
			name = "public"
		}
		return introspect.NewPostgresExtractor(client, name).ExtractSchema(ctx, tableList)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	if explicit {
		log.Debug().Str("path", path).Msg("config loaded")
	}
	return cfg, nil
}

func readDiagram(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read diagram file: %w", err)
	}
	return string(data), nil
}

func writeArtifact(path, content string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("artifact written")
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

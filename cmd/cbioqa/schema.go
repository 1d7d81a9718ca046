package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbiohub/cbioqa"
)

var (
	schemaDBURL      string
	schemaOutputFile string
	schemaOutputDir  string
	schemaTables     string
	schemaExclude    string
	schemaName       string
	schemaFormat     string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Export the portal database schema as model context",
	Long: `Extracts tables, columns, comments, relationships, and indexes from the
portal database and renders them as markdown or compact text. The export is
the database reference handed to agents that translate questions into SQL.`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaDBURL, "db-url", "", "Database URL (postgres://, mysql://, or sqlite://); defaults to config database_url")
	schemaCmd.Flags().StringVarP(&schemaOutputFile, "output", "o", "", "Output file (default: stdout)")
	schemaCmd.Flags().StringVarP(&schemaOutputDir, "output-dir", "d", "", "Output directory for multi-file output")
	schemaCmd.Flags().StringVarP(&schemaTables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	schemaCmd.Flags().StringVar(&schemaExclude, "exclude-tables", "", "Tables to exclude (comma-separated)")
	schemaCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "markdown", "Output format: text or markdown")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	dbURL := schemaDBURL
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	if dbURL == "" {
		return fmt.Errorf("no database URL: pass --db-url or set database_url in the config")
	}

	if schemaFormat != "text" && schemaFormat != "markdown" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", schemaFormat)
	}
	if schemaOutputDir != "" && schemaOutputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	opts := &cbioqa.Options{
		Tables:        splitList(schemaTables),
		ExcludeTables: splitList(schemaExclude),
		SchemaName:    schemaName,
	}

	outOpts := &cbioqa.OutputOptions{
		OutputDir: schemaOutputDir,
		Format:    schemaFormat,
	}
	if schemaOutputDir == "" {
		writer := os.Stdout
		if schemaOutputFile != "" {
			f, err := os.Create(schemaOutputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
				}
			}()
			writer = f
		}
		outOpts.Writer = writer
	}

	return cbioqa.ExtractAndFormat(cmd.Context(), dbURL, opts, outOpts)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"prism/internal/corpus"
	"prism/internal/fields"
	"prism/internal/keys"
	"prism/internal/keystore"
	"prism/internal/language"
)

func newKeysCommand(ctx *commandContext) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Load, cache, and inspect key files",
	}
	keysCmd.AddCommand(newKeysImportCommand(ctx))
	keysCmd.AddCommand(newKeysShowCommand(ctx))
	keysCmd.AddCommand(newKeysStatsCommand(ctx))
	return keysCmd
}

func newKeysImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Read every configured key file into the SQLite cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Cache.Enabled {
				return errors.New("key cache is disabled (set cache.enabled = true)")
			}
			table, _, err := ctx.loadKeys(cmd.Context(), false)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Import(cmd.Context(), table, cfg.Corpus.Databases)
			if err != nil {
				return err
			}
			logger, _ := ctx.ensureLogger()
			logger.Info("key cache updated", "run_id", run.ID, "records", run.Records, "path", store.Path())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d records from %d databases\n", run.Records, len(run.Databases))
			fmt.Fprintf(out, "Duplicates dropped: %d\n", run.Duplicates)
			fmt.Fprintf(out, "Conflicting rows:   %d\n", run.Conflicts)
			fmt.Fprintf(out, "Run ID: %s\n", run.ID)
			return nil
		},
	}
}

func newKeysShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <unique_name>",
		Short: "Show the key record of one segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, "table", "json")
			if err != nil {
				return err
			}
			table, _, err := ctx.loadKeys(cmd.Context(), true)
			if err != nil {
				return err
			}
			rec, ok := table.Get(args[0])
			if !ok {
				return fmt.Errorf("segment %q: %w", args[0], keystore.ErrNotFound)
			}
			if f == "json" {
				return writeJSON(cmd, rec.Map())
			}

			recordTable(rec).print(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func recordTable(rec keys.Record) *textTable {
	values := rec.Values()
	t := newTextTable(num("#"), col("Field"), col("Value"))
	for i, def := range fields.Default().All() {
		value := values[i]
		if def.Key == fields.KeyLanguage || def.Key == fields.KeyNativeLanguage {
			value = languageLabel(value)
		}
		t.add(strconv.Itoa(def.Column), def.Name, value)
	}
	return t
}

// languageLabel renders a language code with its name and ISO 639-1 code.
func languageLabel(code string) string {
	if iso := language.ToISO2(code); iso != "" {
		return fmt.Sprintf("%s (%s, %s)", code, language.DisplayName(code), iso)
	}
	return fmt.Sprintf("%s (%s)", code, language.DisplayName(code))
}

type keysStats struct {
	Source     string               `json:"source"`
	Records    int                  `json:"records"`
	Databases  []keys.DatabaseCount `json:"databases"`
	Duplicates int                  `json:"duplicates"`
	Conflicts  int                  `json:"conflicts"`
	LastImport *keystore.ImportRun  `json:"last_import,omitempty"`
}

func newKeysStatsCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise records per database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, "table", "json")
			if err != nil {
				return err
			}
			table, source, err := ctx.loadKeys(cmd.Context(), true)
			if err != nil {
				return err
			}
			stats := keysStats{
				Source:     string(source),
				Records:    table.Len(),
				Databases:  table.Databases(),
				Duplicates: table.Duplicates(),
				Conflicts:  len(table.Conflicts()),
			}
			// A table rebuilt from the cache is already deduplicated.
			if source == keySourceCache {
				stats.LastImport = lastImport(cmd, ctx)
				if stats.LastImport != nil {
					stats.Duplicates = stats.LastImport.Duplicates
					stats.Conflicts = stats.LastImport.Conflicts
				}
			}
			if f == "json" {
				return writeJSON(cmd, stats)
			}

			t := newTextTable(col("Database"), num("Records"))
			for _, c := range stats.Databases {
				name := c.Database
				if !corpus.IsKnownDatabase(name) {
					name += " (unknown)"
				}
				t.add(name, strconv.Itoa(c.Records))
			}
			out := cmd.OutOrStdout()
			t.print(out)
			fmt.Fprintf(out, "Total: %d records (from %s)\n", stats.Records, stats.Source)
			fmt.Fprintf(out, "Duplicates dropped: %d, conflicting rows: %d\n", stats.Duplicates, stats.Conflicts)
			if stats.LastImport != nil {
				fmt.Fprintf(out, "Last import: %s (%s)\n",
					stats.LastImport.FinishedAt.Local().Format(time.DateTime),
					strings.Join(stats.LastImport.Databases, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func lastImport(cmd *cobra.Command, ctx *commandContext) *keystore.ImportRun {
	store, err := ctx.openStore()
	if err != nil {
		return nil
	}
	defer store.Close()
	run, err := store.LastImport(cmd.Context())
	if err != nil {
		return nil
	}
	return run
}

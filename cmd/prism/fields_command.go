package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/fields"
)

func newFieldsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:         "fields",
		Short:       "List the PRISM key-file columns",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, "table", "json", "yaml")
			if err != nil {
				return err
			}
			defs := fields.Default().All()
			switch f {
			case "json":
				return writeJSON(cmd, defs)
			case "yaml":
				return writeYAML(cmd, defs)
			}

			t := newTextTable(num("#"), col("Name"), col("Key"), col("Kind"), col("Description"))
			for _, def := range defs {
				t.add(strconv.Itoa(def.Column), def.Name, def.Key, string(def.Kind), def.Description)
			}
			t.print(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, or yaml")

	cmd.AddCommand(newFieldsShowCommand())
	return cmd
}

func newFieldsShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name|column>",
		Short: "Describe one column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, "text", "json", "yaml")
			if err != nil {
				return err
			}
			def, ok := fields.Default().Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown field %q", args[0])
			}
			switch f {
			case "json":
				return writeJSON(cmd, def)
			case "yaml":
				return writeYAML(cmd, def)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Column:      %d\n", def.Column)
			fmt.Fprintf(out, "Name:        %s\n", def.Name)
			fmt.Fprintf(out, "Key:         %s\n", def.Key)
			fmt.Fprintf(out, "Kind:        %s\n", def.Kind)
			if len(def.Examples) > 0 {
				fmt.Fprintf(out, "Examples:    %s\n", strings.Join(def.Examples, ", "))
			}
			fmt.Fprintf(out, "Description: %s\n", def.Description)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or yaml")
	return cmd
}

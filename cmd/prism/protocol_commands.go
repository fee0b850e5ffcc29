package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/fields"
	"prism/internal/protocol"
)

func newProtocolCommand(ctx *commandContext) *cobra.Command {
	protocolCmd := &cobra.Command{
		Use:   "protocol",
		Short: "List speaker recognition protocols and their items",
	}
	protocolCmd.AddCommand(newProtocolListCommand())
	protocolCmd.AddCommand(newProtocolItemsCommand(ctx))
	protocolCmd.AddCommand(newProtocolKeyMaskCommand(ctx))
	return protocolCmd
}

func newProtocolListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List registered protocols",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range protocol.Default().Names() {
				fmt.Fprintf(out, "%s.%s\n", protocol.Task, name)
			}
			return nil
		},
	}
}

// openProtocol resolves a protocol name, falling back to protocol.default.
func (c *commandContext) openProtocol(cmd *cobra.Command, args []string) (protocol.Protocol, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	name := cfg.Protocol.Default
	if len(args) > 0 {
		name = args[0]
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("no protocol given and protocol.default is empty")
	}

	pre := protocol.Preprocessors(cfg.Protocol.Preprocessors)
	if err := pre.Validate(); err != nil {
		return nil, err
	}
	table, _, err := c.loadKeys(cmd.Context(), true)
	if err != nil {
		return nil, err
	}
	layout, err := c.layout()
	if err != nil {
		return nil, err
	}
	src := protocol.Source{
		Keys:          table,
		Layout:        layout,
		Preprocessors: pre,
	}
	return protocol.Default().Open(name, src)
}

func newProtocolItemsCommand(ctx *commandContext) *cobra.Command {
	var (
		subsetFlag string
		limit      int
		format     string
	)

	cmd := &cobra.Command{
		Use:   "items [name]",
		Short: "List the items of a protocol subset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, "table", "json")
			if err != nil {
				return err
			}
			subset, err := protocol.ParseSubset(subsetFlag)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0")
			}
			p, err := ctx.openProtocol(cmd, args)
			if err != nil {
				return err
			}
			items, err := p.Items(cmd.Context(), subset)
			if err != nil {
				return err
			}
			total := len(items)
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			if f == "json" {
				return writeJSON(cmd, items)
			}

			extraKeys := extraColumns(items)
			columns := []column{col("Segment"), col("Database"), col("Speaker"), col("Gender"), col("Language"), num("Length")}
			for _, key := range extraKeys {
				columns = append(columns, col(key))
			}
			t := newTextTable(columns...)
			for _, item := range items {
				row := []string{
					item.UniqueName,
					item.Fields[fields.KeyDatabase],
					item.Fields[fields.KeyTarget],
					item.Fields[fields.KeyGender],
					item.Fields[fields.KeyLanguage],
					item.Record.NominalLength.String(),
				}
				for _, key := range extraKeys {
					row = append(row, item.Extra[key])
				}
				t.add(row...)
			}
			out := cmd.OutOrStdout()
			t.print(out)
			fmt.Fprintf(out, "%s %s: showing %d of %d items\n", p.Name(), subset, len(items), total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subsetFlag, "subset", "s", string(protocol.SubsetTrain), "Subset: train, dev-enroll, dev-test, test-enroll, test-test")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N items (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func extraColumns(items []protocol.Item) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		for key := range item.Extra {
			seen[key] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

type keyMaskSummary struct {
	Protocol string                 `json:"protocol"`
	Enroll   int                    `json:"enroll"`
	Test     int                    `json:"test"`
	Counts   protocol.KeyMaskCounts `json:"counts"`
	Trial    *trialLabel            `json:"trial,omitempty"`
}

type trialLabel struct {
	Enroll string `json:"enroll"`
	Test   string `json:"test"`
	Label  string `json:"label"`
}

func lookupTrial(km *protocol.KeyMask, pair string) (*trialLabel, error) {
	enroll, test, ok := strings.Cut(pair, ":")
	if !ok || enroll == "" || test == "" {
		return nil, fmt.Errorf("trial %q: expected ENROLL:TEST", pair)
	}
	label, ok := km.Label(enroll, test)
	if !ok {
		return nil, fmt.Errorf("trial %s vs %s is not in the keymask", enroll, test)
	}
	name := "untested"
	switch label {
	case protocol.LabelTarget:
		name = "target"
	case protocol.LabelNonTarget:
		name = "non-target"
	}
	return &trialLabel{Enroll: enroll, Test: test, Label: name}, nil
}

func newProtocolKeyMaskCommand(ctx *commandContext) *cobra.Command {
	var format, trial string

	cmd := &cobra.Command{
		Use:   "keymask [name]",
		Short: "Summarise the trial keymask of a protocol",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, "table", "json")
			if err != nil {
				return err
			}
			p, err := ctx.openProtocol(cmd, args)
			if err != nil {
				return err
			}
			km, err := p.KeyMask(cmd.Context())
			if err != nil {
				return err
			}
			summary := keyMaskSummary{
				Protocol: p.Name(),
				Enroll:   len(km.Enroll),
				Test:     len(km.Test),
				Counts:   km.Counts(),
			}
			if trial != "" {
				if summary.Trial, err = lookupTrial(km, trial); err != nil {
					return err
				}
			}
			if f == "json" {
				return writeJSON(cmd, summary)
			}

			t := newTextTable(col("Metric"), num("Value"))
			t.add("Enroll segments", strconv.Itoa(summary.Enroll))
			t.add("Test segments", strconv.Itoa(summary.Test))
			t.add("Target trials", strconv.Itoa(summary.Counts.Target))
			t.add("Non-target trials", strconv.Itoa(summary.Counts.NonTarget))
			t.add("Untested pairs", strconv.Itoa(summary.Counts.Untested))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary.Protocol)
			t.print(out)
			if summary.Trial != nil {
				fmt.Fprintf(out, "Trial %s vs %s: %s\n", summary.Trial.Enroll, summary.Trial.Test, summary.Trial.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVar(&trial, "trial", "", "Also show the label of one trial, given as ENROLL:TEST")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrsinham/radreport/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [search]",
	Short: "List the pathologies of the catalog",
	Long: `Catalog loads the configured pathology catalog and lists its entries with
the qualifiers each one requires. An optional argument filters names,
case-insensitively. Rows dropped while loading are reported at the end.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().Bool("json", false, "output definitions as JSON")
	rootCmd.AddCommand(catalogCmd)
}

func requirements(d catalog.PathologyDefinition) string {
	var req []string
	if d.RequiresSide {
		req = append(req, "side")
	}
	if d.RequiresLobe {
		req = append(req, "lobe")
	}
	if d.RequiresMm {
		req = append(req, "mm")
	}
	if len(req) == 0 {
		return "-"
	}
	return strings.Join(req, ", ")
}

func printCatalog(w io.Writer, defs []catalog.PathologyDefinition, dropped []catalog.DroppedRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATHOLOGY\tREQUIRES\tIMPRESSION")
	for _, d := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, requirements(d), d.Impression)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(dropped) > 0 {
		fmt.Fprintf(w, "\n%d row(s) dropped:\n", len(dropped))
		for _, d := range dropped {
			fmt.Fprintf(w, "  row %d %q: %s\n", d.Line, d.Name, d.Reason)
		}
	}
	return nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := loadCatalog(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	var term string
	if len(args) == 1 {
		term = args[0]
	}
	defs := cat.Search(term)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	}
	return printCatalog(cmd.OutOrStdout(), defs, cat.Dropped())
}

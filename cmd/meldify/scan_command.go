package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"meldify/internal/grouping"
	"meldify/internal/ingest"
	"meldify/pkg/models"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var noProgress bool
	var luts []string

	cmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "Classify footage and show camera groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			progress := progressWriter(cmd.ErrOrStderr())
			if noProgress || asJSON {
				progress = nil
			}
			res, err := newIngestPipeline(cfg, ctx.log("cli"), progress).Run(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if err := applyLUTOverrides(res.Groups, luts); err != nil {
				return err
			}
			if asJSON {
				return writeScanJSON(cmd, res)
			}
			printScan(cmd, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print groups as JSON")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the probe progress bar")
	cmd.Flags().StringArrayVar(&luts, "lut", nil, `Override a group's LUT as "<group>=<lut>"; an empty LUT restores the default (repeatable)`)
	return cmd
}

func printScan(cmd *cobra.Command, res *ingest.Result) {
	out := cmd.OutOrStdout()
	if res.Groups.Len() == 0 {
		fmt.Fprintln(out, "No supported files found.")
		return
	}
	fmt.Fprintln(out, renderTable(groupHeader, groupRows(res.Groups), 5, 6))
	fmt.Fprintf(out, "%d files in %d groups\n", len(res.Files), res.Groups.Len())

	for _, f := range res.Files {
		if f.Error != "" {
			fmt.Fprintf(out, "probe failed: %s (%s)\n", f.DisplayName, f.Error)
		}
	}
	if len(res.Duplicates) > 0 {
		fmt.Fprintf(out, "warning: duplicate file names: %v\n", res.Duplicates)
	}
}

func writeScanJSON(cmd *cobra.Command, res *ingest.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(models.ScanResponse{
		Files:      len(res.Files),
		Groups:     res.Groups.Groups(),
		Duplicates: res.Duplicates,
	})
}

// applyLUTOverrides parses "<group>=<lut>" pairs and selects each LUT on its
// group.
func applyLUTOverrides(g *grouping.Grouping, specs []string) error {
	for _, spec := range specs {
		key, lut, ok := strings.Cut(spec, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid --lut %q: want <group>=<lut>", spec)
		}
		if err := g.SelectLUT(key, lut); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ingot/internal/cstore"
	"ingot/internal/driver"
	"ingot/internal/observ"
)

var cratesCmd = &cobra.Command{
	Use:   "crates <manifest>",
	Short: "List the external crates of a session",
	Long:  "Load crates.toml, populate the crate store, and print every registered crate with its decoded identity.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrates,
}

func runCrates(cmd *cobra.Command, args []string) error {
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	timer := observ.NewTimer()

	phase := timer.Begin("load")
	res, err := driver.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d crates", len(res.Numbers)))

	phase = timer.Begin("decode")
	type row struct {
		num cstore.CrateNum
		id  cstore.CrateID
	}
	rows := make([]row, 0, len(res.Numbers))
	res.Store.IterCrateData(func(num cstore.CrateNum, meta *cstore.CrateMetadata) {
		rows = append(rows, row{num: num, id: res.Store.CrateID(num)})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].num < rows[j].num })
	timer.End(phase, "")

	out := cmd.OutOrStdout()
	nameColor := color.New(color.FgCyan, color.Bold)
	for _, r := range rows {
		src, ok := res.Store.GetUsedCrateSource(r.num)
		forms := ""
		if ok {
			if src.Dylib != "" {
				forms += " dylib"
			}
			if src.Rlib != "" {
				forms += " rlib"
			}
		}
		fmt.Fprintf(out, "#%-3d %-16s %-10s %s%s\n",
			r.num, nameColor.Sprint(r.id.Name), r.id.Version, r.id.Hash, forms)
	}

	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

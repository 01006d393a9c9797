package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ingot/internal/cstore"
	"ingot/internal/driver"
	"ingot/internal/link"
	"ingot/internal/observ"
)

var linkOrderPrefer string

func init() {
	linkOrderCmd.Flags().StringVar(&linkOrderPrefer, "prefer", "dynamic", "artifact form to link (dynamic|static)")
}

var linkOrderCmd = &cobra.Command{
	Use:   "link-order <manifest>",
	Short: "Print linker inputs in dependency order",
	Long:  "Load crates.toml and print crate artifacts dependents-first, followed by native libraries and raw link arguments.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinkOrder,
}

func runLinkOrder(cmd *cobra.Command, args []string) error {
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	var pref cstore.LinkagePreference
	switch linkOrderPrefer {
	case "dynamic":
		pref = cstore.RequireDynamic
	case "static":
		pref = cstore.RequireStatic
	default:
		return fmt.Errorf("invalid --prefer value %q (must be dynamic or static)", linkOrderPrefer)
	}

	timer := observ.NewTimer()
	phase := timer.Begin("load")
	res, err := driver.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d crates", len(res.Numbers)))

	phase = timer.Begin("order")
	plan := link.BuildPlan(res.Store, pref)
	timer.End(phase, "")

	out := cmd.OutOrStdout()
	missingColor := color.New(color.FgYellow)
	fmt.Fprintln(out, "artifacts:")
	for _, crate := range plan.Crates {
		meta := res.Store.GetCrateData(crate.Num)
		if crate.Path == "" {
			fmt.Fprintf(out, "  %-16s %s\n", meta.Name,
				missingColor.Sprintf("(no %s artifact)", pref))
			continue
		}
		fmt.Fprintf(out, "  %-16s %s\n", meta.Name, crate.Path)
	}
	if len(plan.NativeLibs) > 0 {
		fmt.Fprintln(out, "native libraries:")
		for _, tok := range plan.NativeLibs {
			fmt.Fprintf(out, "  %s\n", tok)
		}
	}
	if len(plan.ExtraArgs) > 0 {
		fmt.Fprintln(out, "link args:")
		for _, arg := range plan.ExtraArgs {
			fmt.Fprintf(out, "  %s\n", arg)
		}
	}

	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

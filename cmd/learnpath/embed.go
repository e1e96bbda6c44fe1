package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embedding advisor tools",
}

var embedCheckCmd = &cobra.Command{
	Use:   "check URL...",
	Short: "Report whether each URL can be shown in the in-app viewer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		advisor, err := newAdvisor(cfg)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODE\tURL")
		for _, raw := range args {
			advice := advisor.Advise(raw)
			fmt.Fprintf(tw, "%s\t%s\n", advice.Mode, raw)
		}
		return tw.Flush()
	},
}

func init() {
	embedCmd.AddCommand(embedCheckCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/kitchen/config"
)

func newValidateCmd() *cobra.Command {
	var levelPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a level file and print its recipes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := config.LoadLevel(levelPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "interval between drops: %gs\n", level.IntervalBetweenDrops)
			fmt.Fprintf(out, "max concurrent orders: %d\n", level.MaxConcurrentOrders)

			for _, r := range level.Recipes() {
				names := make([]string, len(r.Ingredients))
				for i, ing := range r.Ingredients {
					names[i] = ing.String()
				}

				fmt.Fprintf(out, "  %s (%gs): %s\n",
					r.Name, r.TimeBudget, strings.Join(names, ", "))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&levelPath, "level", "l", "", "level file")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

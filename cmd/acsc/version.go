package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"acsc/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show acsc build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := useColor(cmd); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
}

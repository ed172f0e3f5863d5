package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var csvOut string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return err
				}
				defer f.Close()
				return s.service.WriteSignupsCSV(s.ctx, f)
			}

			st, err := s.service.Stats(s.ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().StringVar(&csvOut, "signups-csv", "", "write signups per day to this file instead")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var participantsCmd = &cobra.Command{
	Use:   "participants FILE",
	Short: "List the participants of a chat export",
	Long:  `List the selectable participants of a chat export: Overall first, then every sender in name order.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, loaded, err := loadExport(cmd, args[0])
		if err != nil {
			return err
		}
		for _, p := range loaded.Table.Participants() {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(participantsCmd)
}

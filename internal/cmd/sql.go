package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/strrl/chatpulse/internal/db"
)

var sqlCmd = &cobra.Command{
	Use:   "sql FILE QUERY",
	Short: "Run a SQL query over a chat export",
	Long: `Load a chat export into an in-memory DuckDB table named "messages" and run
QUERY against it. Columns: seq, sent_at, sender, body, is_media, is_deleted,
urls, url_count, year, month_name, month_num, day, hour, minute, day_name,
only_date, hour_block.`,
	Args: cobra.ExactArgs(2),
	RunE: runSQL,
}

func init() {
	rootCmd.AddCommand(sqlCmd)
}

func runSQL(cmd *cobra.Command, args []string) error {
	_, loaded, err := loadExport(cmd, args[0])
	if err != nil {
		return err
	}

	conn, err := db.Open()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := cmd.Context()
	if err := db.LoadTable(ctx, conn, loaded.Table); err != nil {
		return err
	}

	columns, rows, err := db.Query(ctx, conn, args[1])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

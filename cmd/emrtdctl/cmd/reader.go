package cmd

import (
	"github.com/andrei-cloud/go-emrtd/pkg/pcsc"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// readerCmd groups PC/SC reader discovery utilities.
var readerCmd = &cobra.Command{
	Use:   "reader",
	Short: "Inspect PC/SC readers attached to this host",
}

var readerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List PC/SC readers and their index, as ListReaders reports them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		readers, err := pcsc.ListReaders()
		if err != nil {
			return err
		}
		if len(readers) == 0 {
			cmd.Println("no PC/SC readers found")

			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetTitle("PC/SC READERS")
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Colors: text.Colors{text.FgCyan, text.Bold}},
		})
		t.AppendHeader(table.Row{"Index", "Reader Name"})
		for i, name := range readers {
			t.AppendRow(table.Row{i, name})
		}
		t.Render()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(readerCmd)
	readerCmd.AddCommand(readerListCmd)
}

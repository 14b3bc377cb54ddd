package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List snapshot files",
	RunE:  runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	files, err := svc.Files(cmd.Context())
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		return printJSON(files)
	}
	rows := make([]string, len(files))
	for i, f := range files {
		rows[i] = fmt.Sprintf("%s\t%s\t%s\t%s", f.Key, f.Store, f.Date, f.Kind)
	}
	printTable("File\tStore\tDate\tKind", rows)
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Work with Google Sheets spreadsheets",
	}

	cmd.AddCommand(newSheetsGetCmd())
	cmd.AddCommand(newSheetsUpdateCmd())
	cmd.AddCommand(newSheetsAppendCmd())
	cmd.AddCommand(newSheetsCreateCmd())
	return cmd
}

func newSheetsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <spreadsheet> <range>",
		Short: "Read a range of values in A1 notation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Sheets(ctx, cfg.Account)
			if err != nil {
				return err
			}

			spreadsheetID, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			values, err := client.GetValues(ctx, spreadsheetID, args[1])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(values.Values))
			for _, row := range values.Values {
				cells := make([]string, 0, len(row))
				for _, cell := range row {
					cells = append(cells, fmt.Sprint(cell))
				}
				rows = append(rows, cells)
			}
			return printTable(nil, rows, values)
		},
	}
}

// parseRows decodes a JSON array of row arrays, e.g. [["a",1],["b",2]].
func parseRows(raw string) ([][]any, error) {
	var rows [][]any
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("values must be a JSON array of arrays: %w", err)
	}
	return rows, nil
}

func newSheetsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <spreadsheet> <range> <values>",
		Short: "Overwrite a range of cells with JSON-encoded rows",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Sheets(ctx, cfg.Account)
			if err != nil {
				return err
			}

			spreadsheetID, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			rows, err := parseRows(args[2])
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "sheets/update", func() error {
				result, report, err := client.UpdateValues(ctx, spreadsheetID, args[1], rows, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, result)
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

func newSheetsAppendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append <spreadsheet> <range> <values>",
		Short: "Append JSON-encoded rows after the last row of data",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Sheets(ctx, cfg.Account)
			if err != nil {
				return err
			}

			spreadsheetID, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			rows, err := parseRows(args[2])
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "sheets/append", func() error {
				result, report, err := client.AppendValues(ctx, spreadsheetID, args[1], rows, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, result)
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

func newSheetsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Sheets(ctx, cfg.Account)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "sheets/create", func() error {
				info, report, err := client.CreateSpreadsheet(ctx, args[0], callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, info)
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

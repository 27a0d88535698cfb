package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Work with Google Docs documents",
	}

	cmd.AddCommand(newDocsCatCmd())
	cmd.AddCommand(newDocsCreateCmd())
	cmd.AddCommand(newDocsAppendCmd())
	cmd.AddCommand(newDocsReplaceCmd())
	return cmd
}

func newDocsCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <document>",
		Short: "Print a document's plain-text content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Docs(ctx, cfg.Account)
			if err != nil {
				return err
			}

			documentID, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			doc, err := client.GetDocument(ctx, documentID)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(doc)
			}
			fmt.Print(doc.Text)
			return nil
		},
	}
}

func newDocsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new blank document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Docs(ctx, cfg.Account)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "docs/create", func() error {
				info, report, err := client.CreateDocument(ctx, args[0], callOpts()...)
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

func newDocsAppendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append <document> <text>",
		Short: "Append text to the end of a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Docs(ctx, cfg.Account)
			if err != nil {
				return err
			}

			documentID, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "docs/append", func() error {
				report, err := client.AppendText(ctx, documentID, args[1], callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Appended %d bytes to %s\n", len(args[1]), documentID)
				return nil
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

func newDocsReplaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace <document> <find> <replace>",
		Short: "Replace every case-sensitive occurrence of a string",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Docs(ctx, cfg.Account)
			if err != nil {
				return err
			}

			documentID, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "docs/replace", func() error {
				result, report, err := client.ReplaceText(ctx, documentID, args[1], args[2], callOpts()...)
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

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/gmail"
)

func newGmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Work with Gmail messages and threads",
	}

	cmd.AddCommand(newGmailSearchCmd())
	cmd.AddCommand(newGmailReadCmd())
	cmd.AddCommand(newGmailSendCmd())
	cmd.AddCommand(newGmailArchiveCmd())
	cmd.AddCommand(newGmailTrashCmd())
	return cmd
}

func splitAddresses(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newGmailSearchCmd() *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search messages with Gmail query syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Gmail(ctx, cfg.Account)
			if err != nil {
				return err
			}

			messages, err := client.SearchMessages(ctx, args[0], maxResults)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(messages))
			for _, m := range messages {
				unread := ""
				if m.Unread {
					unread = "unread"
				}
				rows = append(rows, []string{m.ID, m.Date.Format("2006-01-02"), m.From, m.Subject, unread})
			}
			return printTable([]string{"ID", "DATE", "FROM", "SUBJECT", ""}, rows, messages)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 25, "Maximum number of messages to list")
	return cmd
}

func newGmailReadCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "read <message-id>",
		Short: "Print a message's decoded body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Gmail(ctx, cfg.Account)
			if err != nil {
				return err
			}

			body, err := client.GetMessageBody(ctx, args[0], format)
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Preferred body format: text or html")
	return cmd
}

func newGmailSendCmd() *cobra.Command {
	var (
		to      string
		cc      string
		bcc     string
		subject string
		body    string
		html    bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Compose and send an email",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Gmail(ctx, cfg.Account)
			if err != nil {
				return err
			}

			msg := &gmail.EmailMessage{
				To:      splitAddresses(to),
				Cc:      splitAddresses(cc),
				Bcc:     splitAddresses(bcc),
				Subject: subject,
				Body:    body,
				IsHTML:  html,
			}

			return onceGuard(ctx, cfg, "gmail/send", func() error {
				messageID, report, err := client.SendEmail(ctx, msg, callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Sent message %s\n", messageID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Comma-separated recipient addresses")
	cmd.Flags().StringVar(&cc, "cc", "", "Comma-separated CC addresses")
	cmd.Flags().StringVar(&bcc, "bcc", "", "Comma-separated BCC addresses")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&body, "body", "", "Message body")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("subject")
	cmd.MarkFlagRequired("body")
	cmd.Flags().BoolVar(&html, "html", false, "Send the body as HTML instead of plain text")
	addMutationFlags(cmd)
	return cmd
}

func newGmailArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <thread-id>",
		Short: "Archive a thread by removing it from the inbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Gmail(ctx, cfg.Account)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "gmail/archive", func() error {
				report, err := client.ArchiveThread(ctx, args[0], callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Archived thread %s\n", args[0])
				return nil
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

func newGmailTrashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash <message-id>",
		Short: "Move a message to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Gmail(ctx, cfg.Account)
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "gmail/trash", func() error {
				report, err := client.TrashMessage(ctx, args[0], callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Trashed message %s\n", args[0])
				return nil
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/drive"
)

func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Work with Google Drive files and folders",
	}

	cmd.AddCommand(newDriveListCmd())
	cmd.AddCommand(newDriveGetCmd())
	cmd.AddCommand(newDriveDownloadCmd())
	cmd.AddCommand(newDriveMkdirCmd())
	cmd.AddCommand(newDriveShareCmd())
	cmd.AddCommand(newDriveTrashCmd())
	return cmd
}

func newDriveListCmd() *cobra.Command {
	var (
		query      string
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files, optionally filtered with Drive query syntax",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Drive(ctx, cfg.Account)
			if err != nil {
				return err
			}

			files, err := client.ListFiles(ctx, drive.ListOptions{
				Query:      query,
				MaxResults: maxResults,
				OrderBy:    "modifiedTime desc",
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.ID, f.Name, f.MimeType, f.ModifiedTime.Format("2006-01-02 15:04")})
			}
			return printTable([]string{"ID", "NAME", "TYPE", "MODIFIED"}, rows, files)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Drive query, e.g. \"name contains 'report'\"")
	cmd.Flags().IntVar(&maxResults, "max-results", 25, "Maximum number of files to list")
	return cmd
}

func newDriveGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file>",
		Short: "Show file metadata by ID, URL or title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Drive(ctx, cfg.Account)
			if err != nil {
				return err
			}

			fileID, err := client.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			file, err := client.GetFile(ctx, fileID)
			if err != nil {
				return err
			}
			return printJSON(file)
		},
	}
}

func newDriveDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <file>",
		Short: "Download a file's content to a local path or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Drive(ctx, cfg.Account)
			if err != nil {
				return err
			}

			fileID, err := client.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}

			body, err := client.DownloadFile(ctx, fileID)
			if err != nil {
				return err
			}
			defer body.Close()

			dst := io.Writer(os.Stdout)
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}
			_, err = io.Copy(dst, body)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write content to this path instead of stdout")
	return cmd
}

func newDriveMkdirCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Drive(ctx, cfg.Account)
			if err != nil {
				return err
			}

			var parents []string
			if parent != "" {
				parentID, err := client.ResolveIDWithType(ctx, parent, drive.FolderMimeType)
				if err != nil {
					return fmt.Errorf("failed to resolve parent folder: %w", err)
				}
				parents = []string{parentID}
			}

			return onceGuard(ctx, cfg, "drive/mkdir", func() error {
				folder, report, err := client.CreateFolder(ctx, args[0], parents, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, folder)
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent folder ID, URL or title")
	addMutationFlags(cmd)
	return cmd
}

func newDriveShareCmd() *cobra.Command {
	var (
		email string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "share <file>",
		Short: "Grant a user access to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Drive(ctx, cfg.Account)
			if err != nil {
				return err
			}

			fileID, err := client.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "drive/share", func() error {
				perm, report, err := client.ShareFile(ctx, fileID, &drive.ShareOptions{
					Type:         "user",
					Role:         role,
					EmailAddress: email,
				}, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, perm)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the grantee")
	cmd.Flags().StringVar(&role, "role", "reader", "Role to grant: reader, commenter or writer")
	cmd.MarkFlagRequired("email")
	addMutationFlags(cmd)
	return cmd
}

func newDriveTrashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash <file>",
		Short: "Move a file to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Drive(ctx, cfg.Account)
			if err != nil {
				return err
			}

			fileID, err := client.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}

			return onceGuard(ctx, cfg, "drive/trash", func() error {
				report, err := client.TrashFile(ctx, fileID, callOpts()...)
				if err != nil {
					return err
				}
				if report != nil {
					return printJSON(report)
				}
				fmt.Printf("Trashed %s\n", fileID)
				return nil
			})
		},
	}

	addMutationFlags(cmd)
	return cmd
}

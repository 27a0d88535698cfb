package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/google"
)

func newAuthCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Obtain and store an OAuth token for an account",
		Long: `Without --code, prints the authorization URL to visit. Visit it, grant
access, then run the command again with --code to exchange the
authorization code for a token. Tokens are stored per account, so the
same flow works for any number of accounts via --account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			account := cfg.Account

			if code == "" {
				url, err := google.GetAuthURLForAccount(account)
				if err != nil {
					return err
				}
				fmt.Printf("Visit the following URL to authorize account %q:\n\n  %s\n\n", account, url)
				fmt.Println("Then run: gspace auth --code <authorization-code>")
				return nil
			}

			ctx, cancel := runContext()
			defer cancel()

			if err := google.SaveTokenForAccount(ctx, account, code); err != nil {
				return fmt.Errorf("failed to exchange authorization code: %w", err)
			}
			fmt.Printf("Token stored for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the consent page")
	return cmd
}

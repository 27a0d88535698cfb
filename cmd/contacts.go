package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bpopineau/gspace/internal/contacts"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Work with Google Contacts",
	}

	cmd.AddCommand(newContactsSearchCmd())
	cmd.AddCommand(newContactsListCmd())
	cmd.AddCommand(newContactsAddCmd())
	return cmd
}

func contactRows(found []*contacts.Contact) [][]string {
	rows := make([][]string, 0, len(found))
	for _, c := range found {
		rows = append(rows, []string{c.DisplayName, c.PrimaryEmail(), c.Organization})
	}
	return rows
}

func newContactsSearchCmd() *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search saved and interacted-with contacts by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Contacts(ctx, cfg.Account)
			if err != nil {
				return err
			}

			found, err := client.SearchContacts(ctx, args[0], maxResults)
			if err != nil {
				return err
			}
			return printTable([]string{"NAME", "EMAIL", "ORGANIZATION"}, contactRows(found), found)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 10, "Maximum number of contacts to list")
	return cmd
}

func newContactsListCmd() *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved contacts ordered by first name",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Contacts(ctx, cfg.Account)
			if err != nil {
				return err
			}

			found, err := client.ListContacts(ctx, maxResults)
			if err != nil {
				return err
			}
			return printTable([]string{"NAME", "EMAIL", "ORGANIZATION"}, contactRows(found), found)
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 50, "Maximum number of contacts to list")
	return cmd
}

func newContactsAddCmd() *cobra.Command {
	var (
		givenName  string
		familyName string
		email      string
		phone      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a contact; at least a name or an email is required",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext()
			defer cancel()

			ws, cfg, err := newWorkspace()
			if err != nil {
				return err
			}

			client, err := ws.Contacts(ctx, cfg.Account)
			if err != nil {
				return err
			}

			input := contacts.ContactInput{
				GivenName:  givenName,
				FamilyName: familyName,
				Email:      email,
				Phone:      phone,
			}

			return onceGuard(ctx, cfg, "contacts/add", func() error {
				contact, report, err := client.CreateContact(ctx, input, callOpts()...)
				if err != nil {
					return err
				}
				return printMutation(report, contact)
			})
		},
	}

	cmd.Flags().StringVar(&givenName, "given-name", "", "First name")
	cmd.Flags().StringVar(&familyName, "family-name", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	addMutationFlags(cmd)
	return cmd
}

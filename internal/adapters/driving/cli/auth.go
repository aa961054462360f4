package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the signed-in Microsoft account",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a device code",
	Long: `Sign in to Microsoft Graph.

A cached account is refreshed silently when possible. Otherwise a device code
is printed; open the link on any device and enter the code to finish.

Use --force when Graph rejects a token that has not expired yet: the current
account is signed out first so a new device code is issued.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cached accounts",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout [account]",
	Short: "Remove a cached account (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthLogout,
}

var forceLogin bool

func init() {
	authLoginCmd.Flags().BoolVar(&forceLogin, "force", false, "discard the current account and sign in again")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	svc, err := authSvc()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if forceLogin {
		if accounts := svc.Accounts(); len(accounts) > 0 {
			if err := svc.SignOut(ctx, accounts[0]); err != nil {
				return err
			}
		}
	}
	if _, err := svc.GetToken(ctx); err != nil {
		return err
	}

	account := "(unknown account)"
	if accounts := svc.Accounts(); len(accounts) > 0 && accounts[0] != "" {
		account = accounts[0]
	}
	cmd.Printf("Signed in as %s\n", account)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	svc, err := authSvc()
	if err != nil {
		return err
	}
	accounts := svc.Accounts()
	if len(accounts) == 0 {
		cmd.Println("Not signed in. Run 'onenote auth login'.")
		return nil
	}
	for i, a := range accounts {
		if a == "" {
			a = "(unknown account)"
		}
		marker := " "
		if i == 0 {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, a)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	svc, err := authSvc()
	if err != nil {
		return err
	}

	var account string
	if len(args) > 0 {
		account = args[0]
	} else {
		accounts := svc.Accounts()
		if len(accounts) == 0 {
			return domain.ErrNotAuthenticated
		}
		account = accounts[0]
	}

	if err := svc.SignOut(context.Background(), account); err != nil {
		return err
	}
	if account == "" {
		account = "(unknown account)"
	}
	cmd.Printf("Signed out %s\n", account)
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/recircle-app/recircle/internal/daemon"
)

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Display name (defaults to the email local part)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (required)")
	registerCmd.Flags().StringVar(&registerRole, "role", "customer", "Account role")
	_ = registerCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(registerCmd)
}

var (
	registerUsername string
	registerPassword string
	registerRole     string
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	account, err := d.Accounts.Register(args[0], registerUsername, registerPassword, registerRole, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (%s)\n", account.Email, account.Username)
	return nil
}

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/crucial707/trade-journal/cmd/cli/client"
	"github.com/crucial707/trade-journal/cmd/cli/config"
	"github.com/crucial707/trade-journal/cmd/cli/output"
	"github.com/spf13/cobra"
)

// InitAuth registers account commands (register, login, logout, check-email, google-login) on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		checkEmailCmd(),
		googleLoginCmd(),
	)
}

// HashPassword is the client-side pre-hash sent as passwordHash: lowercase hex SHA-256.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type authResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

func credentialsFlags(cmd *cobra.Command, email, password *string) {
	cmd.Flags().StringVar(email, "email", "", "account email")
	cmd.Flags().StringVar(password, "password", "", "account password (hashed before sending)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

// ==========================
// REGISTER
// ==========================
func registerCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a journal account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out authResponse
			payload := map[string]string{"email": email, "passwordHash": HashPassword(password)}
			if err := client.Call("POST", "/api/auth/register", payload, &out); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(output.Out, "%s (%s)\n", out.Message, out.UserID)
			return nil
		},
	}
	credentialsFlags(cmd, &email, &password)
	return cmd
}

// ==========================
// LOGIN
// ==========================

// loginCmd verifies credentials and stores the user id locally for entry commands.
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Trading Journal API",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out authResponse
			payload := map[string]string{"email": email, "passwordHash": HashPassword(password)}
			if err := client.Call("POST", "/api/auth/login", payload, &out); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := config.SaveUser(out.UserID); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Fprintf(output.Out, "%s. Logged in as %s.\n", out.Message, out.UserID)
			return nil
		},
	}
	credentialsFlags(cmd, &email, &password)
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearUser(); err != nil {
				return err
			}
			fmt.Fprintln(output.Out, "Logged out.")
			return nil
		},
	}
}

// ==========================
// CHECK EMAIL
// ==========================
func checkEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-email [email]",
		Short: "Report whether an email is still available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Available bool `json:"available"`
			}
			if err := client.Call("GET", "/api/auth/check-email?email="+url.QueryEscape(args[0]), nil, &out); err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if out.Available {
				fmt.Fprintf(output.Out, "%s is available\n", args[0])
			} else {
				fmt.Fprintf(output.Out, "%s is already registered\n", args[0])
			}
			return nil
		},
	}
}

// ==========================
// GOOGLE LOGIN
// ==========================
func googleLoginCmd() *cobra.Command {
	var googleID, email string

	cmd := &cobra.Command{
		Use:   "google-login",
		Short: "Record a Google sign-in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out authResponse
			payload := map[string]string{"googleId": googleID, "email": email}
			if err := client.Call("POST", "/api/auth/google-login", payload, &out); err != nil {
				return fmt.Errorf("google login: %w", err)
			}
			if err := config.SaveUser(out.UserID); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Fprintf(output.Out, "%s. Logged in as %s.\n", out.Message, out.UserID)
			return nil
		},
	}
	cmd.Flags().StringVar(&googleID, "google-id", "", "Google account id")
	cmd.Flags().StringVar(&email, "email", "", "Google account email")
	_ = cmd.MarkFlagRequired("google-id")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

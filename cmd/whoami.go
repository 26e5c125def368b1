package cmd

import (
	"fmt"
	"time"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the configured token belongs to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		tok, err := tokenProvider().Token(cmd.Context())
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if tok == "" {
			fmt.Fprintln(out, "Not signed in. Set COURSEKIT_TOKEN or pass --token.")
			return nil
		}

		claims, err := api.ParseClaims(tok)
		if err != nil {
			fmt.Fprintln(out, "Signed in with an opaque token (not a JWT).")
			return nil
		}

		fmt.Fprintf(out, "Subject:  %s\n", claims.Subject)
		if claims.Email != "" {
			fmt.Fprintf(out, "Email:    %s\n", claims.Email)
		}
		if claims.Issuer != "" {
			fmt.Fprintf(out, "Issuer:   %s\n", claims.Issuer)
		}
		switch {
		case claims.ExpiresAt.IsZero():
			fmt.Fprintln(out, "Expires:  never")
		case claims.Expired(time.Now()):
			fmt.Fprintf(out, "Expires:  %s (expired)\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		default:
			fmt.Fprintf(out, "Expires:  %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martdesk/martdesk/internal/gate"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear the persisted session",
	}

	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionClearCmd())

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionShow(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runSessionShow(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer st.Close()

	g := gate.New(st)
	sess, err := g.RestoreSession(context.Background())
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if sess == nil {
		fmt.Println("No active session.")
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sess)
	}

	fmt.Printf("Signed in as %s (%s %s)\n", sess.Username, sess.FirstName, sess.LastName)
	fmt.Printf("  role:        %s\n", sess.Role)
	fmt.Printf("  destination: %s\n", gate.RouteForRole(sess.Role))
	fmt.Printf("  login time:  %s\n", sess.LoginTime.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func newSessionClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the current session (logout)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open slot store: %w", err)
			}
			defer st.Close()

			if err := gate.New(st).Logout(context.Background()); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Println("Session cleared.")
			return nil
		},
	}
}

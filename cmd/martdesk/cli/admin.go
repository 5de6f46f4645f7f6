package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/martdesk/martdesk/internal/directory"
	"github.com/martdesk/martdesk/internal/model"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Create, list, and maintain the administrative accounts that can sign in to the console.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminStatusCmd("activate", model.StatusActive))
	cmd.AddCommand(newAdminStatusCmd("deactivate", model.StatusInactive))
	cmd.AddCommand(newAdminPasswdCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		username  string
		password  string
		firstName string
		lastName  string
		email     string
		role      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin user",
		Example: `  martdesk admin create --username alice --role "Order Admin" --password secret
  martdesk admin create --username alice  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(username, password, firstName, lastName, email, role)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", "", `Role ("Super Admin", "Order Admin", "Finance Admin", "Product Admin")`)
	cmd.MarkFlagRequired("username")

	return cmd
}

func runAdminCreate(username, password, firstName, lastName, email, role string) error {
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	dir := directory.New(st)
	user := model.AdminUser{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      model.Role(role),
		Status:    model.StatusActive,
	}
	if err := dir.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if err := dir.SetCredential(ctx, username, password); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	fmt.Printf("Created admin user %q (id %s)\n", username, user.ID)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pwBytes), nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer st.Close()

	users, err := directory.New(st).Users(context.Background())
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}

	if len(users) == 0 {
		fmt.Println("No admin users configured. Use 'martdesk admin create' to create one.")
		return nil
	}

	fmt.Printf("%-20s %-18s %-14s %-8s %-12s\n", "USERNAME", "NAME", "ROLE", "STATUS", "LAST LOGIN")
	fmt.Printf("%-20s %-18s %-14s %-8s %-12s\n", "--------", "----", "----", "------", "----------")
	for _, u := range users {
		lastLogin := u.LastLogin
		if lastLogin == "" {
			lastLogin = "-"
		}
		fmt.Printf("%-20s %-18s %-14s %-8s %-12s\n",
			u.Username, u.FirstName+" "+u.LastName, u.Role, u.Status, lastLogin)
	}

	return nil
}

// ---------- admin activate / deactivate ----------

func newAdminStatusCmd(verb string, status model.Status) *cobra.Command {
	short := "Reactivate an admin user"
	if status == model.StatusInactive {
		short = "Deactivate an admin user (blocks future logins)"
	}
	return &cobra.Command{
		Use:   verb + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminSetStatus(args[0], status)
		},
	}
}

func runAdminSetStatus(username string, status model.Status) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	dir := directory.New(st)
	user, err := dir.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find admin %q: %w", username, err)
	}
	if err := dir.SetStatus(ctx, user.ID, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	fmt.Printf("Admin user %q is now %s\n", username, status)
	return nil
}

// ---------- admin passwd ----------

func newAdminPasswdCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Set a new password for an admin user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminPasswd(args[0], password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password (prompted if omitted)")

	return cmd
}

func runAdminPasswd(username, password string) error {
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	dir := directory.New(st)
	if _, err := dir.FindByUsername(ctx, username); err != nil {
		return fmt.Errorf("find admin %q: %w", username, err)
	}
	if err := dir.SetCredential(ctx, username, password); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	fmt.Printf("Updated password for %q\n", username)
	return nil
}

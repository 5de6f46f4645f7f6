package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martdesk/martdesk/internal/directory"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Import admin accounts from a YAML seed file",
		Long: `Import admin accounts and their credentials from a YAML file. Existing
usernames are skipped, so seeding is safe to repeat.

Seed file layout:

  admins:
    - username: alice
      password: p1
      first_name: Alice
      last_name: Ng
      email: alice@example.com
      role: Order Admin
      status: Active`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(args[0])
		},
	}

	return cmd
}

func runSeed(path string) error {
	seed, err := directory.LoadSeedFile(path)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer st.Close()

	created, err := directory.New(st).Seed(context.Background(), seed)
	if err != nil {
		return err
	}

	skipped := len(seed.Admins) - created
	fmt.Printf("Seeded %d admin user(s), skipped %d existing\n", created, skipped)
	return nil
}

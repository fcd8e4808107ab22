package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the storage with sample data",
	Long:  `Seed the users and roles collections with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		deps, err := initializeDependencies(ctx)
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		if err := seedCollections(ctx, deps, clearData); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Users and roles seeded successfully")
	},
}

// seedCollections writes the sample users and roles. Without overwrite a
// collection that already holds items is left alone.
func seedCollections(ctx context.Context, deps *Dependencies, overwrite bool) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if !overwrite {
			existing, err := deps.Users.FetchAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to read users: %w", err)
			}
			if len(existing) > 0 {
				deps.Logger.Info("users already present; skipping", "count", len(existing))
				return nil
			}
		}
		if err := deps.Users.Reset(ctx, user.Seed()); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if !overwrite {
			existing, err := deps.Roles.FetchAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to read roles: %w", err)
			}
			if len(existing) > 0 {
				deps.Logger.Info("roles already present; skipping", "count", len(existing))
				return nil
			}
		}
		if err := deps.Roles.Reset(ctx, role.Seed()); err != nil {
			return fmt.Errorf("failed to seed roles: %w", err)
		}
		return nil
	})

	return g.Wait()
}

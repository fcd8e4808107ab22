package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/rbac-admin/internal/audit"
)

var (
	auditEntity string
	auditLimit  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recorded activity",
	Long:  `List the most recent audit log entries. Only the gorm driver keeps entries between runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return fmt.Errorf("failed to init dependencies: %w", err)
		}
		defer deps.Close()

		entries, err := deps.Audit.List(ctx, audit.Filter{Entity: auditEntity, Limit: auditLimit})
		if err != nil {
			return fmt.Errorf("failed to list audit logs: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "OCCURRED AT\tENTITY\tID\tACTION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.OccurredAt.Format(time.RFC3339), e.Entity, e.EntityID, e.Action)
		}
		return w.Flush()
	},
}

func init() {
	auditCmd.Flags().StringVarP(&auditEntity, "entity", "e", "", "only entries for this entity (user or role)")
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "l", audit.DefaultLimit, "maximum number of entries")
}

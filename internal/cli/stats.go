package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recircle-app/recircle/internal/daemon"
	"github.com/recircle-app/recircle/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show community-wide recycling statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats := d.Gamify.GlobalStats()

	fmt.Printf("Users:    %d\n", stats.TotalUsers)
	fmt.Printf("Reports:  %d\n", stats.TotalReports)
	fmt.Printf("Visits:   %d\n", stats.TotalVisits)
	fmt.Printf("Total XP: %d\n", stats.TotalXP)
	fmt.Println("\nMaterials recycled:")
	for _, m := range domain.Materials {
		fmt.Printf("  %-12s %d\n", m, stats.MaterialStats[m])
	}
	return nil
}

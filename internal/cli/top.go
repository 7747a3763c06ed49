package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/recircle-app/recircle/internal/daemon"
	"github.com/recircle-app/recircle/internal/domain"
)

func init() {
	rootCmd.AddCommand(topCmd)
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the XP leaderboard",
	RunE:  runTop,
}

func runTop(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats := d.Gamify.GlobalStats()
	if len(stats.TopUsers) == 0 {
		fmt.Println("No users yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tXP\tLEVEL\tTIER\tREPORTS")
	for i, u := range stats.TopUsers {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%d\n",
			i+1, u.Username, u.XP, u.Level,
			domain.RankForLevel(u.Level), u.TotalReports,
		)
	}
	return w.Flush()
}

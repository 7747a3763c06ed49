package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/recircle-app/recircle/internal/daemon"
	"github.com/recircle-app/recircle/internal/domain"
)

func init() {
	rootCmd.AddCommand(recycleCmd)
}

var recycleCmd = &cobra.Command{
	Use:   "recycle <email> <material> [count]",
	Short: "Record recycled items for a user",
	Long: `Record recycled items and credit the recycling XP.
Materials: plastic, paper, glass, metal, electronic.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runRecycle,
}

func runRecycle(cmd *cobra.Command, args []string) error {
	count := 1
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return fmt.Errorf("count must be a positive integer, got %q", args[2])
		}
		count = n
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	progress, err := d.Gamify.RecordRecycle(args[0], args[1], count, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %d × %s for %s\n", count, args[1], args[0])
	fmt.Printf("XP: %d  Level: %d (%s)\n",
		progress.XP, progress.Level, domain.RankForLevel(progress.Level))
	return nil
}

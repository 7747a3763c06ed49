package domain

// RankNames lists the tier names in ascending order.
var RankNames = []string{"Noobie", "Rookie", "Apprentice", "Expert", "Pro", "Master Recycler"}

// rank thresholds: the level at which the NEXT tier begins.
var rankThresholds = []int{5, 10, 20, 30, 50}

// RankForLevel maps a level to its named tier. Total and monotonic.
func RankForLevel(level int) string {
	return RankNames[RankIndex(level)]
}

// RankIndex returns the tier index for a level (0 = Noobie).
func RankIndex(level int) int {
	for i, threshold := range rankThresholds {
		if level < threshold {
			return i
		}
	}
	return len(RankNames) - 1
}

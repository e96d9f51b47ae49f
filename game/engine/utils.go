package engine

import "sort"

// TotalValue sums the hidden values of a set of treasures
func TotalValue(treasures []Treasure) int {
	total := 0
	for _, t := range treasures {
		total += t.HiddenValue
	}
	return total
}

// CountTier counts the tiles of a given dot tier on a path, ignoring removed ones
func CountTier(tiles []Treasure, dots int) int {
	count := 0
	for _, t := range tiles {
		if !t.Removed && t.Dots == dots {
			count++
		}
	}
	return count
}

// Leaders returns the seats sharing the highest score, lowest seat first
func Leaders(scores []int) []int {
	best := -1
	var leaders []int
	for i, s := range scores {
		switch {
		case s > best:
			best = s
			leaders = []int{i}
		case s == best:
			leaders = append(leaders, i)
		}
	}
	return leaders
}

// Ranking returns seat indices ordered by score, highest first. Ties keep seat order.
func Ranking(scores []int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

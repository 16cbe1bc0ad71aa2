package tracking

import (
	"math"

	"completions-tracker/internal/models"
)

// Progress is the share of released tags, rounded to a whole percent.
// A pack without tags is at 0.
func Progress(tags []models.Tag) int {
	if len(tags) == 0 {
		return 0
	}
	return percent(countReleased(tags), len(tags))
}

// AllReleased is false for an empty slice: a pack with no tags is never done.
func AllReleased(tags []models.Tag) bool {
	if len(tags) == 0 {
		return false
	}
	return countReleased(tags) == len(tags)
}

func countReleased(tags []models.Tag) int {
	n := 0
	for _, t := range tags {
		if t.Estado == models.TagLiberado {
			n++
		}
	}
	return n
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func withProgress(packs []models.TestPack) {
	for i := range packs {
		packs[i].Progress = Progress(packs[i].Tags)
	}
}

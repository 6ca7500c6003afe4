package services

import (
	"math"

	"everafter/internal/domain/models"
)

// Progress summarizes checklist completion.
type Progress struct {
	Completed int  `json:"completed"`
	Total     int  `json:"total"`
	Percent   int  `json:"percent"`
	AllDone   bool `json:"all_done"`
}

// ComputeProgress counts completed tasks; an empty list is 0 percent
// and not "all done".
func ComputeProgress(tasks []models.ChecklistTask) Progress {
	total := len(tasks)
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return Progress{
		Completed: completed,
		Total:     total,
		Percent:   percent,
		AllDone:   total > 0 && completed == total,
	}
}

package services

import (
	"testing"

	"everafter/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		want      Progress
	}{
		{
			name: "empty list",
			want: Progress{Completed: 0, Total: 0, Percent: 0, AllDone: false},
		},
		{
			name:      "three of fifteen",
			total:     15,
			completed: 3,
			want:      Progress{Completed: 3, Total: 15, Percent: 20, AllDone: false},
		},
		{
			name:      "rounds to nearest",
			total:     3,
			completed: 1,
			want:      Progress{Completed: 1, Total: 3, Percent: 33, AllDone: false},
		},
		{
			name:      "rounds half up",
			total:     8,
			completed: 3,
			want:      Progress{Completed: 3, Total: 8, Percent: 38, AllDone: false},
		},
		{
			name:      "all done",
			total:     15,
			completed: 15,
			want:      Progress{Completed: 15, Total: 15, Percent: 100, AllDone: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := make([]models.ChecklistTask, tt.total)
			for i := range tasks {
				tasks[i].Completed = i < tt.completed
			}
			assert.Equal(t, tt.want, ComputeProgress(tasks))
		})
	}
}

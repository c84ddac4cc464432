package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusQueued.Terminal())
	assert.False(t, JobStatusProcessing.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}

func TestJobStageBefore(t *testing.T) {
	order := []JobStage{StageCloning, StageAnalyzing, StageGenerating, StageUploading}
	for i, earlier := range order {
		for _, later := range order[i+1:] {
			assert.True(t, earlier.Before(later), "%s should precede %s", earlier, later)
			assert.False(t, later.Before(earlier))
		}
		assert.False(t, earlier.Before(earlier))
	}
}

func TestJobCloneIsDeep(t *testing.T) {
	done := time.Now().UTC()
	job := &Job{
		ID:          "a",
		Status:      JobStatusCompleted,
		Result:      []DocumentEntry{{File: "main.go", Summary: "entry point"}},
		CompletedAt: &done,
	}

	cp := job.Clone()
	cp.Result[0].Summary = "mutated"
	*cp.CompletedAt = done.Add(time.Hour)

	assert.Equal(t, "entry point", job.Result[0].Summary)
	assert.Equal(t, done, *job.CompletedAt)
}

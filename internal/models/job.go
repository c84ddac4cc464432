// Package models defines data structures for the autoreadme pipeline.
package models

import "time"

// JobStatus represents the lifecycle state of a documentation job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further status transitions can occur.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobStage names the pipeline step currently running. It is set exactly
// while Status is "processing" and advances monotonically.
type JobStage string

const (
	StageCloning    JobStage = "cloning"
	StageAnalyzing  JobStage = "analyzing"
	StageGenerating JobStage = "generating"
	StageUploading  JobStage = "uploading"
)

// stageOrder gives each stage a rank so the writer can assert monotone progress.
var stageOrder = map[JobStage]int{
	StageCloning:    1,
	StageAnalyzing:  2,
	StageGenerating: 3,
	StageUploading:  4,
}

// Before reports whether s comes earlier in the pipeline than other.
func (s JobStage) Before(other JobStage) bool {
	return stageOrder[s] < stageOrder[other]
}

// DocumentEntry is one (file, summary) pair in the compiled result.
// Failed holds the generation failure reason when no summary was produced.
type DocumentEntry struct {
	File    string `json:"file"`
	Summary string `json:"summary,omitempty"`
	Failed  string `json:"failed,omitempty"`
}

// Job is the persisted record of one documentation-generation request.
// A job has exactly one writer (the pipeline goroutine running it) and
// any number of concurrent readers polling through the store.
type Job struct {
	ID                 string          `json:"job_id" gorm:"primaryKey"`
	RepoURL            string          `json:"repo_url"`
	Status             JobStatus       `json:"status"`
	Stage              JobStage        `json:"stage,omitempty"`
	FilesProcessed     int             `json:"files_processed"`
	DocumentsGenerated int             `json:"documents_generated"`
	Result             []DocumentEntry `json:"result,omitempty" gorm:"serializer:json"`
	ResultURL          string          `json:"result_url,omitempty"`
	Error              string          `json:"error,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
}

// Clone returns a deep copy of the job so readers never share the
// writer's Result slice.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Result != nil {
		cp.Result = make([]DocumentEntry, len(j.Result))
		copy(cp.Result, j.Result)
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

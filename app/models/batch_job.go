package models

import (
	"time"
)

// BatchJob job phân giải nhiều địa chỉ chạy nền
type BatchJob struct {
	JobID          string    `json:"job_id"`
	Status         string    `json:"status"`
	Total          int       `json:"total"`
	Processed      int       `json:"processed"`
	Progress       float64   `json:"progress"`
	DatasetVersion string    `json:"dataset_version"`
	Message        string    `json:"message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Job status constants
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// NewBatchJob tạo mới một BatchJob
func NewBatchJob(jobID string, total int, datasetVersion string) *BatchJob {
	now := time.Now()
	return &BatchJob{
		JobID:          jobID,
		Status:         JobStatusPending,
		Total:          total,
		DatasetVersion: datasetVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Advance cập nhật tiến độ sau khi xử lý xong n địa chỉ
func (j *BatchJob) Advance(n int) {
	j.Processed += n
	if j.Total > 0 {
		j.Progress = float64(j.Processed) / float64(j.Total)
	}
	j.UpdatedAt = time.Now()
}

// Finish đánh dấu job kết thúc
func (j *BatchJob) Finish(err error) {
	j.UpdatedAt = time.Now()
	if err != nil {
		j.Status = JobStatusFailed
		j.Message = err.Error()
		return
	}
	j.Status = JobStatusDone
	j.Progress = 1
}

// IsCompleted kiểm tra job đã kết thúc chưa
func (j *BatchJob) IsCompleted() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}

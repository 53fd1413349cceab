// Package queue carries post-upload processing jobs from the server to the
// thumbnail worker.
package queue

import (
	"context"
	"strconv"
)

// Job asks the worker to process one stored image.
type Job struct {
	UserID uint `json:"userId"`
	FileID uint `json:"fileId"`
}

// Publisher hands a job to the transport.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// Handler processes one delivered job.
type Handler func(ctx context.Context, job Job) error

func (j Job) values() map[string]any {
	return map[string]any{
		"userId": strconv.FormatUint(uint64(j.UserID), 10),
		"fileId": strconv.FormatUint(uint64(j.FileID), 10),
	}
}

// jobFromValues decodes stream fields. Missing or malformed fields decode as
// zero so the worker can reject the job with a precise message.
func jobFromValues(values map[string]any) Job {
	return Job{
		UserID: parseID(values["userId"]),
		FileID: parseID(values["fileId"]),
	}
}

func parseID(v any) uint {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

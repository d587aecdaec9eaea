package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const (
	JobTypeRemoteSync   = "remote_sync"
	JobTypeStagingMerge = "staging_merge"
)

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID         int         `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Type       string      `bun:",nullzero" json:"type"`
	Status     string      `bun:",nullzero" json:"status"`
	Data       string      `bun:",nullzero" json:"-"`
	DataParsed interface{} `bun:"-" json:"data"`
	Error      *string     `json:"error,omitempty"`
	ProcessID  *string     `json:"process_id,omitempty"`
}

func (job *Job) UnmarshalData() error {
	switch job.Type {
	case JobTypeRemoteSync:
		job.DataParsed = &JobRemoteSyncData{}
	case JobTypeStagingMerge:
		job.DataParsed = &JobStagingMergeData{}
	default:
		return nil
	}

	err := json.Unmarshal([]byte(job.Data), job.DataParsed)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// JobRemoteSyncData parameterizes one sync run against the remote
// system.
type JobRemoteSyncData struct {
	HutID  int `json:"hut_id"`
	Months int `json:"months"`
}

// JobStagingMergeData parameterizes a staging merge run.
type JobStagingMergeData struct {
	DryRun bool `json:"dry_run"`
}

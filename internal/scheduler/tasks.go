package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskScanRun = "scan.run"

type ScanRunPayload struct {
	ScanID   string `json:"scanId"`
	UserID   string `json:"userId"`
	SourceID string `json:"sourceId"`
}

func NewScanRunTask(payload ScanRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// Retrying a half-run pipeline would re-upsert entities against an
	// already mutated contact graph, so failed scans stay failed.
	return asynq.NewTask(TaskScanRun, data, asynq.MaxRetry(0)), nil
}

func ParseScanRunPayload(task *asynq.Task) (ScanRunPayload, error) {
	var payload ScanRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScanRunPayload{}, err
	}
	return payload, nil
}

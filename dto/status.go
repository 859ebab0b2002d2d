package dto

import (
	"taskboard/model"
)

// StatusRequest is used for both create and update. On update a blank name
// keeps the current one.
type StatusRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type StatusResponse struct {
	StatusID    int64   `json:"status_id"`
	BoardID     string  `json:"board_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsDefault   bool    `json:"is_default"`
	TaskCount   *int64  `json:"task_count,omitempty"`
}

func NewStatusResponse(s model.Status) StatusResponse {
	return StatusResponse{
		StatusID:    s.StatusID,
		BoardID:     s.BoardID,
		Name:        s.Name,
		Description: s.Description,
		IsDefault:   s.Protected,
	}
}

// NewStatusResponses converts statuses; counts is optional.
func NewStatusResponses(statuses []model.Status, counts map[int64]int64) []StatusResponse {
	out := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp := NewStatusResponse(s)
		if counts != nil {
			n := counts[s.StatusID]
			resp.TaskCount = &n
		}
		out = append(out, resp)
	}
	return out
}

type DeleteStatusResponse struct {
	Status     StatusResponse `json:"status"`
	MovedTasks int64          `json:"moved_tasks"`
	NewStatus  *int64         `json:"new_status_id,omitempty"`
}

package dto

import "time"

// CreateWorkLogRequest payload. EngineerID defaults to the caller.
type CreateWorkLogRequest struct {
	TicketID    int64      `json:"ticket_id"`
	EngineerID  string     `json:"engineer_id"`
	Description string     `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsInternal  bool       `json:"is_internal"`
}

// WorkLogResponse is the wire shape of a work log.
type WorkLogResponse struct {
	ID          int64      `json:"id"`
	TicketID    int64      `json:"ticket_id"`
	EngineerID  string     `json:"engineer_id"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsInternal  bool       `json:"is_internal"`
}

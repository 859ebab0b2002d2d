package dto

import (
	"time"

	"taskboard/model"
)

type CreateBoardRequest struct {
	BoardName  string `json:"board_name"`
	Visibility string `json:"visibility"`
}

type BoardResponse struct {
	BoardID    string           `json:"board_id"`
	BoardName  string           `json:"board_name"`
	OwnerID    string           `json:"owner_id"`
	Visibility model.Visibility `json:"visibility"`
	CreatedAt  time.Time        `json:"created_at"`
	Statuses   []StatusResponse `json:"statuses,omitempty"`
}

func NewBoardResponse(b model.Board) BoardResponse {
	return BoardResponse{
		BoardID:    b.BoardID,
		BoardName:  b.BoardName,
		OwnerID:    b.OwnerID,
		Visibility: b.Visibility,
		CreatedAt:  b.CreatedAt,
	}
}

func NewBoardResponses(boards []model.Board) []BoardResponse {
	out := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, NewBoardResponse(b))
	}
	return out
}

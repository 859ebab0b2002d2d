package dto

import (
	"time"

	"taskboard/model"
	"taskboard/services"
)

type InviteRequest struct {
	Email       string `json:"email"`
	AccessRight string `json:"access_right"`
}

type UpdateAccessRightRequest struct {
	AccessRight string `json:"access_right"`
}

// CollaboratorResponse shows requested_access_right only for PENDING rows.
type CollaboratorResponse struct {
	BoardID              string            `json:"board_id"`
	UserID               string            `json:"oid"`
	Name                 string            `json:"name"`
	Email                string            `json:"email"`
	AccessRight          model.AccessRight `json:"access_right"`
	RequestedAccessRight model.AccessRight `json:"requested_access_right,omitempty"`
	AddedOn              time.Time         `json:"added_on"`
}

func NewCollaboratorResponse(v services.CollaboratorView) CollaboratorResponse {
	return CollaboratorResponse{
		BoardID:              v.BoardID,
		UserID:               v.UserID,
		Name:                 v.Name,
		Email:                v.Email,
		AccessRight:          v.AccessRight,
		RequestedAccessRight: v.RequestedRight,
		AddedOn:              v.AddedOn,
	}
}

func NewCollaboratorResponses(views []services.CollaboratorView) []CollaboratorResponse {
	out := make([]CollaboratorResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewCollaboratorResponse(v))
	}
	return out
}

type InvitationResponse struct {
	BoardID              string            `json:"board_id"`
	BoardName            string            `json:"board_name"`
	InvitedBy            string            `json:"invited_by"`
	RequestedAccessRight model.AccessRight `json:"requested_access_right"`
	InvitedOn            time.Time         `json:"invited_on"`
}

func NewInvitationResponses(invs []services.Invitation) []InvitationResponse {
	out := make([]InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, InvitationResponse{
			BoardID:              inv.BoardID,
			BoardName:            inv.BoardName,
			InvitedBy:            inv.InviterName,
			RequestedAccessRight: inv.RequestedRight,
			InvitedOn:            inv.InvitedOn,
		})
	}
	return out
}

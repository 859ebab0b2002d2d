package collaborator

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/apperrors"
	"taskboard/controller"
	"taskboard/dto"
	"taskboard/middleware"
	"taskboard/services"
)

func CollaboratorController(router *gin.Engine, auth gin.HandlerFunc, collabs *services.CollaborationManager, log *slog.Logger) {
	routes := router.Group("/boards/:boardid/collabs", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListCollaborators(c, collabs, log)
		})
		routes.POST("", func(c *gin.Context) {
			InviteCollaborator(c, collabs, log)
		})
		routes.PUT("/invitations", func(c *gin.Context) {
			AcceptInvitation(c, collabs, log)
		})
		routes.DELETE("/invitations", func(c *gin.Context) {
			DeclineInvitation(c, collabs, log)
		})
		routes.GET("/:collabid", func(c *gin.Context) {
			GetCollaborator(c, collabs, log)
		})
		routes.PATCH("/:collabid", func(c *gin.Context) {
			UpdateAccessRight(c, collabs, log)
		})
		routes.DELETE("/:collabid", func(c *gin.Context) {
			RemoveCollaborator(c, collabs, log)
		})
	}
}

func ListCollaborators(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	views, err := collabs.List(c.Request.Context(), c.Param("boardid"), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCollaboratorResponses(views))
}

func GetCollaborator(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	view, err := collabs.Get(c.Request.Context(), c.Param("boardid"), c.Param("collabid"), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCollaboratorResponse(view))
}

// InviteCollaborator answers 201 even when the notification failed; the
// failure is reported under "warning" because the invitation is committed.
func InviteCollaborator(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	var req dto.InviteRequest
	if !controller.BindJSON(c, log, &req) {
		return
	}
	view, err := collabs.Invite(c.Request.Context(), c.Param("boardid"), middleware.UserID(c), req.Email, req.AccessRight)
	var appErr *apperrors.Error
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"collaborator": dto.NewCollaboratorResponse(view)})
	case errors.Is(err, apperrors.ErrEmailSendFailure) && errors.As(err, &appErr):
		c.JSON(http.StatusCreated, gin.H{
			"collaborator": dto.NewCollaboratorResponse(view),
			"warning":      controller.ErrorBody(appErr),
		})
	default:
		controller.RespondError(c, log, err)
	}
}

func AcceptInvitation(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	view, err := collabs.Accept(c.Request.Context(), c.Param("boardid"), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCollaboratorResponse(view))
}

func DeclineInvitation(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	if err := collabs.Decline(c.Request.Context(), c.Param("boardid"), middleware.UserID(c)); err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}

func UpdateAccessRight(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	var req dto.UpdateAccessRightRequest
	if !controller.BindJSON(c, log, &req) {
		return
	}
	view, err := collabs.UpdateAccessRight(c.Request.Context(), c.Param("boardid"), c.Param("collabid"), req.AccessRight, middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCollaboratorResponse(view))
}

func RemoveCollaborator(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	if err := collabs.Remove(c.Request.Context(), c.Param("boardid"), c.Param("collabid"), middleware.UserID(c)); err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed"})
}

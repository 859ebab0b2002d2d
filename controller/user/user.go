package user

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/apperrors"
	"taskboard/controller"
	"taskboard/dto"
	"taskboard/middleware"
	"taskboard/services"
)

func UserController(router *gin.Engine, auth gin.HandlerFunc, collabs *services.CollaborationManager, log *slog.Logger) {
	routes := router.Group("/user", auth)
	{
		routes.GET("/me", func(c *gin.Context) {
			Profile(c, log)
		})
		routes.GET("/invitations", func(c *gin.Context) {
			ListInvitations(c, collabs, log)
		})
	}
}

func Profile(c *gin.Context, log *slog.Logger) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		controller.RespondError(c, log, apperrors.Unauthenticated("caller is not authenticated"))
		return
	}
	c.JSON(http.StatusOK, identity)
}

func ListInvitations(c *gin.Context, collabs *services.CollaborationManager, log *slog.Logger) {
	invitations, err := collabs.ListInvitations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInvitationResponses(invitations))
}

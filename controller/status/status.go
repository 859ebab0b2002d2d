package status

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/controller"
	"taskboard/dto"
	"taskboard/middleware"
	"taskboard/services"
)

func StatusController(router *gin.Engine, auth gin.HandlerFunc, statuses *services.StatusManager, log *slog.Logger) {
	routes := router.Group("/boards/:boardid/statuses", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListStatuses(c, statuses, log)
		})
		routes.POST("", func(c *gin.Context) {
			CreateStatus(c, statuses, log)
		})
		routes.GET("/:statusid", func(c *gin.Context) {
			GetStatus(c, statuses, log)
		})
		routes.PUT("/:statusid", func(c *gin.Context) {
			UpdateStatus(c, statuses, log)
		})
		routes.DELETE("/:statusid", func(c *gin.Context) {
			DeleteStatus(c, statuses, log)
		})
		routes.DELETE("/:statusid/:newstatusid", func(c *gin.Context) {
			DeleteAndTransfer(c, statuses, log)
		})
	}
}

// ListStatuses adds per-status task counts when called with ?count=true.
func ListStatuses(c *gin.Context, statuses *services.StatusManager, log *slog.Logger) {
	ctx := c.Request.Context()
	boardID, userID := c.Param("boardid"), middleware.UserID(c)
	list, err := statuses.List(ctx, boardID, userID)
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	var counts map[int64]int64
	if c.Query("count") == "true" {
		if counts, err = statuses.CountTasks(ctx, boardID, userID); err != nil {
			controller.RespondError(c, log, err)
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewStatusResponses(list, counts))
}

func GetStatus(c *gin.Context, statuses *services.StatusManager, log *slog.Logger) {
	id, ok := controller.ParamID(c, log, "statusid")
	if !ok {
		return
	}
	status, err := statuses.GetByID(c.Request.Context(), c.Param("boardid"), id, middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatusResponse(status))
}

func CreateStatus(c *gin.Context, statuses *services.StatusManager, log *slog.Logger) {
	var req dto.StatusRequest
	if !controller.BindJSON(c, log, &req) {
		return
	}
	status, err := statuses.Create(c.Request.Context(), c.Param("boardid"), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewStatusResponse(status))
}

func UpdateStatus(c *gin.Context, statuses *services.StatusManager, log *slog.Logger) {
	id, ok := controller.ParamID(c, log, "statusid")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !controller.BindJSON(c, log, &req) {
		return
	}
	status, err := statuses.Update(c.Request.Context(), c.Param("boardid"), id, middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatusResponse(status))
}

func DeleteStatus(c *gin.Context, statuses *services.StatusManager, log *slog.Logger) {
	id, ok := controller.ParamID(c, log, "statusid")
	if !ok {
		return
	}
	removed, err := statuses.Delete(c.Request.Context(), c.Param("boardid"), id, middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteStatusResponse{Status: dto.NewStatusResponse(removed)})
}

func DeleteAndTransfer(c *gin.Context, statuses *services.StatusManager, log *slog.Logger) {
	id, ok := controller.ParamID(c, log, "statusid")
	if !ok {
		return
	}
	newID, ok := controller.ParamID(c, log, "newstatusid")
	if !ok {
		return
	}
	removed, moved, err := statuses.DeleteAndTransfer(c.Request.Context(), c.Param("boardid"), id, newID, middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteStatusResponse{
		Status:     dto.NewStatusResponse(removed),
		MovedTasks: moved,
		NewStatus:  &newID,
	})
}

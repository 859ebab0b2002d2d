package task

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/controller"
	"taskboard/dto"
	"taskboard/middleware"
	"taskboard/services"
)

func TaskController(router *gin.Engine, auth gin.HandlerFunc, tasks *services.TaskService, log *slog.Logger) {
	routes := router.Group("/boards/:boardid/tasks", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, tasks, log)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, tasks, log)
		})
	}
}

func ListTasks(c *gin.Context, tasks *services.TaskService, log *slog.Logger) {
	list, err := tasks.List(c.Request.Context(), c.Param("boardid"), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponses(list))
}

func CreateTask(c *gin.Context, tasks *services.TaskService, log *slog.Logger) {
	var req dto.CreateTaskRequest
	if !controller.BindJSON(c, log, &req) {
		return
	}
	created, err := tasks.Create(c.Request.Context(), c.Param("boardid"), middleware.UserID(c), req.TaskName, req.Description, req.StatusID)
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTaskResponse(created))
}

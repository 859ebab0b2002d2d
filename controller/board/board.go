package board

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/controller"
	"taskboard/dto"
	"taskboard/middleware"
	"taskboard/services"
)

func BoardController(router *gin.Engine, auth gin.HandlerFunc, boards *services.BoardService, log *slog.Logger) {
	routes := router.Group("/boards", auth)
	{
		routes.POST("", func(c *gin.Context) {
			CreateBoard(c, boards, log)
		})
		routes.GET("", func(c *gin.Context) {
			ListBoards(c, boards, log)
		})
		routes.GET("/:boardid", func(c *gin.Context) {
			GetBoard(c, boards, log)
		})
		routes.DELETE("/:boardid", func(c *gin.Context) {
			DeleteBoard(c, boards, log)
		})
	}
}

func CreateBoard(c *gin.Context, boards *services.BoardService, log *slog.Logger) {
	var req dto.CreateBoardRequest
	if !controller.BindJSON(c, log, &req) {
		return
	}
	board, statuses, err := boards.Create(c.Request.Context(), middleware.UserID(c), req.BoardName, req.Visibility)
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	resp := dto.NewBoardResponse(board)
	resp.Statuses = dto.NewStatusResponses(statuses, nil)
	c.JSON(http.StatusCreated, resp)
}

func ListBoards(c *gin.Context, boards *services.BoardService, log *slog.Logger) {
	list, err := boards.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBoardResponses(list))
}

func GetBoard(c *gin.Context, boards *services.BoardService, log *slog.Logger) {
	board, _, err := boards.Get(c.Request.Context(), c.Param("boardid"), middleware.UserID(c))
	if err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBoardResponse(board))
}

func DeleteBoard(c *gin.Context, boards *services.BoardService, log *slog.Logger) {
	if err := boards.Delete(c.Request.Context(), c.Param("boardid"), middleware.UserID(c)); err != nil {
		controller.RespondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

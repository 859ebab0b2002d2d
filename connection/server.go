package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskboard/config"
	"taskboard/controller"
	"taskboard/controller/board"
	"taskboard/controller/collaborator"
	"taskboard/controller/status"
	"taskboard/controller/task"
	"taskboard/controller/user"
	"taskboard/middleware"
	"taskboard/repository"
	"taskboard/scheduler"
	"taskboard/services"
)

// Integrations are the outbound channels the collaboration workflow talks to.
type Integrations struct {
	Notifier services.Notifier
	Mirror   services.CollaboratorMirror
}

// NewIntegrations picks e-mail and push delivery from what is configured.
// Missing channels fall back to no-ops.
func NewIntegrations(cfg config.Config, fb *Firebase, log *slog.Logger) Integrations {
	var channels []services.Notifier
	if cfg.SMTP.Enabled() {
		channels = append(channels, services.NewEmailNotifier(cfg.SMTP))
	} else {
		log.Warn("SMTP is not configured; invitation e-mails are disabled")
	}
	in := Integrations{Mirror: services.NopMirror{}}
	if fb != nil {
		channels = append(channels, services.NewPushNotifier(services.NewFirestoreTokenLookup(fb.Firestore), fb.Messaging))
		in.Mirror = services.NewFirestoreMirror(fb.Firestore)
	} else {
		log.Warn("firebase is not configured; push notifications and the board mirror are disabled")
	}
	switch len(channels) {
	case 0:
		in.Notifier = services.NopNotifier{}
	case 1:
		in.Notifier = channels[0]
	default:
		in.Notifier = services.NewMultiNotifier(log, channels...)
	}
	return in
}

// NewRouter wires repositories, services and controllers onto a gin engine.
func NewRouter(cfg config.Config, db *gorm.DB, in Integrations, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), cors.Default())

	users := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	collabRepo := repository.NewCollaboratorRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	policy := services.NewPolicy(boardRepo, collabRepo)

	collabs := services.NewCollaborationManager(services.CollaborationDeps{
		Policy:     policy,
		Boards:     boardRepo,
		Collabs:    collabRepo,
		Users:      users,
		Notifier:   in.Notifier,
		Mirror:     in.Mirror,
		AppBaseURL: cfg.AppBaseURL,
		Log:        log,
	})

	auth := middleware.AccessTokenMiddleware([]byte(cfg.JWTSecret), users)

	controller.HealthController(router)
	board.BoardController(router, auth, services.NewBoardService(boardRepo, policy, in.Mirror, log), log)
	collaborator.CollaboratorController(router, auth, collabs, log)
	status.StatusController(router, auth, services.NewStatusManager(policy, statusRepo, log), log)
	task.TaskController(router, auth, services.NewTaskService(policy, taskRepo, statusRepo, log), log)
	user.UserController(router, auth, collabs, log)

	return router
}

// StartServer runs the API and the invitation audit until SIGINT or SIGTERM.
func StartServer(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := DBConnection(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	fb, err := FBConnection(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to firebase: %w", err)
	}
	defer fb.Close()

	router := NewRouter(cfg, db, NewIntegrations(cfg, fb, log), log)

	auditor := services.NewInvitationAuditor(repository.NewCollaboratorRepository(db), log)
	jobs, err := scheduler.Start(cfg.AuditSchedule, auditor, log)
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/repo"
	"go-rest-secure-api/internal/service"
	"go-rest-secure-api/internal/transport/http/ez"
)

type EventHandler struct {
	db *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler { return &EventHandler{db: db} }

func (h *EventHandler) Priority() int { return 40 }

func (h *EventHandler) svc(tx *gorm.DB) *service.EventService {
	return service.NewEventService(repo.NewEventRepo(tx), repo.NewUserRepo(tx), repo.NewFileRepo(tx))
}

func (h *EventHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	rwdEvents := []domain.Permission{domain.PermReadWriteDeleteEvent}

	type eventIn struct {
		Name   string `json:"name"   binding:"required,max=128"`
		UserID string `json:"userId" binding:"required"`
		FileID string `json:"fileId" binding:"required"`
	}
	ez.RegisterAction(e, h.db, ez.Action[eventIn, *domain.Event]{
		Method: http.MethodPost,
		Path:   "/events",
		Binder: ez.BindJSON,
		Perms:  rwdEvents,
		UseTx:  true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, tx *gorm.DB, in *eventIn) (*domain.Event, error) {
			return h.svc(tx).Save(c.Request.Context(), &domain.Event{
				Name:   in.Name,
				UserID: in.UserID,
				FileID: in.FileID,
			})
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, []domain.Event]{
		Method: http.MethodGet,
		Path:   "/events",
		Binder: ez.BindNone,
		Perms:  rwdEvents,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Event, error) {
			return h.svc(tx).FindAll(c.Request.Context())
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, *domain.Event]{
		Method: http.MethodGet,
		Path:   "/events/:id",
		Binder: ez.BindNone,
		Perms:  rwdEvents,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.Event, error) {
			return h.svc(tx).FindByID(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[eventIn, *domain.Event]{
		Method: http.MethodPut,
		Path:   "/events/:id",
		Binder: ez.BindJSON,
		Perms:  rwdEvents,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *eventIn) (*domain.Event, error) {
			return h.svc(tx).Update(c.Request.Context(), &domain.Event{
				ID:     c.Param("id"),
				Name:   in.Name,
				UserID: in.UserID,
				FileID: in.FileID,
			})
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/events/:id",
		Binder: ez.BindNone,
		Perms:  rwdEvents,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc(tx).DeleteByID(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/events",
		Binder: ez.BindNone,
		Perms:  rwdEvents,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := h.svc(tx).DeleteAll(c.Request.Context()); err != nil {
				return nil, err
			}
			return gin.H{"message": "deleted"}, nil
		},
	})
}

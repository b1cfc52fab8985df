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

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{db: db} }

func (h *UserHandler) Priority() int { return 20 }

func (h *UserHandler) svc(tx *gorm.DB) *service.UserService {
	return service.NewUserService(repo.NewUserRepo(tx), repo.NewEventRepo(tx), repo.NewFileRepo(tx))
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	rwdUsers := []domain.Permission{domain.PermReadWriteDeleteUser}
	readSelf := []domain.Permission{domain.PermReadSelf}

	ez.RegisterAction(e, h.db, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Perms:  readSelf,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.User, error) {
			return h.svc(tx).FindByID(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, []domain.File]{
		Method: http.MethodGet,
		Path:   "/users/:id/files",
		Binder: ez.BindNone,
		Perms:  readSelf,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.File, error) {
			return h.svc(tx).FindFiles(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Perms:  rwdUsers,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.User, error) {
			return h.svc(tx).FindAll(c.Request.Context())
		},
	})

	type updateIn struct {
		FirstName string `json:"firstName" binding:"omitempty,max=64"`
		LastName  string `json:"lastName"  binding:"omitempty,max=64"`
		Email     string `json:"email"     binding:"omitempty,email"`
	}
	ez.RegisterAction(e, h.db, ez.Action[updateIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Perms:  rwdUsers,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *updateIn) (*domain.User, error) {
			return h.svc(tx).Update(c.Request.Context(), &domain.User{
				ID:        c.Param("id"),
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
			})
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Perms:  rwdUsers,
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
		Path:   "/users",
		Binder: ez.BindNone,
		Perms:  rwdUsers,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := h.svc(tx).DeleteAll(c.Request.Context()); err != nil {
				return nil, err
			}
			return gin.H{"message": "deleted"}, nil
		},
	})
}

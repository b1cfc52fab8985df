package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-rest-secure-api/internal/core/cache"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/internal/repo"
	"go-rest-secure-api/internal/service"
	"go-rest-secure-api/internal/storage"
	"go-rest-secure-api/internal/transport/http/ez"
	"go-rest-secure-api/internal/transport/http/response"
)

type FileHandler struct {
	db     *gorm.DB
	store  storage.ObjectStore
	bucket string
	cache  *cache.Cache
}

func NewFileHandler(db *gorm.DB, store storage.ObjectStore, bucket string, c *cache.Cache) *FileHandler {
	return &FileHandler{db: db, store: store, bucket: bucket, cache: c}
}

func (h *FileHandler) Priority() int { return 30 }

func (h *FileHandler) svc(tx *gorm.DB) *service.FileService {
	return service.NewFileService(repo.NewFileRepo(tx), h.store, h.bucket, h.cache)
}

// readUpload 取 multipart 的 file 字段内容
func readUpload(c *gin.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, errs.BadRequest("missing multipart field: file")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, errs.BadRequest("cannot open uploaded file: " + err.Error())
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, errs.BadRequest("cannot read uploaded file: " + err.Error())
	}
	return fh.Filename, data, nil
}

func (h *FileHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	rwdFiles := []domain.Permission{domain.PermReadWriteDeleteFile}

	ez.RegisterRaw(e, ez.Raw{
		Method: http.MethodPost,
		Path:   "/files/upload",
		Perms:  rwdFiles,
		Handler: func(c *gin.Context) {
			name, data, err := readUpload(c)
			if err != nil {
				response.Fail(c, err)
				return
			}
			ctx := c.Request.Context()
			var out *domain.File
			err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				f, e := h.svc(tx).Upload(ctx, name, data)
				out = f
				return e
			})
			if err != nil {
				response.Fail(c, err)
				return
			}
			response.Created(c, out)
		},
	})

	// 下载按 location 定位，对象本体以 octet-stream 回流
	type downloadIn struct {
		Location string `json:"location" binding:"required"`
	}
	ez.RegisterRaw(e, ez.Raw{
		Method: http.MethodGet,
		Path:   "/files/download",
		Perms:  []domain.Permission{domain.PermDownloadFile},
		Handler: func(c *gin.Context) {
			var in downloadIn
			if err := c.ShouldBindJSON(&in); err != nil {
				response.Abort(c, http.StatusBadRequest, string(errs.KindBadRequest), err.Error())
				return
			}
			ctx := c.Request.Context()
			data, err := h.svc(h.db.WithContext(ctx)).Download(ctx, in.Location)
			if err != nil {
				response.Fail(c, err)
				return
			}
			c.Data(http.StatusOK, "application/octet-stream", data)
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, []domain.File]{
		Method: http.MethodGet,
		Path:   "/files",
		Binder: ez.BindNone,
		Perms:  rwdFiles,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.File, error) {
			return h.svc(tx).FindAll(c.Request.Context())
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, *domain.File]{
		Method: http.MethodGet,
		Path:   "/files/:id",
		Binder: ez.BindNone,
		Perms:  rwdFiles,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.File, error) {
			return h.svc(tx).FindByID(c.Request.Context(), c.Param("id"))
		},
	})

	type renameIn struct {
		Name string `json:"name" binding:"required,max=255"`
	}
	ez.RegisterAction(e, h.db, ez.Action[renameIn, *domain.File]{
		Method: http.MethodPut,
		Path:   "/files/:id",
		Binder: ez.BindJSON,
		Perms:  rwdFiles,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *renameIn) (*domain.File, error) {
			return h.svc(tx).Rename(c.Request.Context(), c.Param("id"), in.Name)
		},
	})

	ez.RegisterRaw(e, ez.Raw{
		Method: http.MethodPut,
		Path:   "/files/:id/update_content",
		Perms:  rwdFiles,
		Handler: func(c *gin.Context) {
			_, data, err := readUpload(c)
			if err != nil {
				response.Fail(c, err)
				return
			}
			ctx := c.Request.Context()
			var out *domain.File
			err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				f, e := h.svc(tx).UpdateContent(ctx, c.Param("id"), data)
				out = f
				return e
			})
			if err != nil {
				response.Fail(c, err)
				return
			}
			response.OK(c, out)
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/files/:id",
		Binder: ez.BindNone,
		Perms:  rwdFiles,
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
		Path:   "/files",
		Binder: ez.BindNone,
		Perms:  rwdFiles,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := h.svc(tx).DeleteAll(c.Request.Context()); err != nil {
				return nil, err
			}
			return gin.H{"message": "deleted"}, nil
		},
	})
}

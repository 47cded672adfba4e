package delivery

import (
	"errors"
	"net/http"
	"time"

	"catalog_web/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	useCase usecase.CatalogUseCase
	log     *logrus.Logger
	now     func() time.Time
}

func NewCatalogHandler(uc usecase.CatalogUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		useCase: uc,
		log:     logger,
		now:     time.Now,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Index)
	router.GET("/state", h.State)
	router.GET("/health", h.Health)
	router.POST("/categories", h.CreateCategory)
	router.POST("/products", h.CreateProduct)
	router.POST("/notifications/:id/dismiss", h.DismissNotification)
}

func (h *CatalogHandler) Index(c *gin.Context) {
	page := BuildPage(h.useCase.Snapshot(), h.now())
	c.HTML(http.StatusOK, indexTemplate, page)
}

func (h *CatalogHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCase.Snapshot())
}

func (h *CatalogHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	h.useCase.SetCategoryInput(c.PostForm("name"))
	err := h.useCase.CreateCategory(c.Request.Context())
	h.finishSubmission(c, "CreateCategory", err)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	h.useCase.SetProductInputs(c.PostForm("name"), c.PostForm("category"))
	err := h.useCase.CreateProduct(c.Request.Context())
	h.finishSubmission(c, "CreateProduct", err)
}

// finishSubmission redirects back to the page. Remote failures are already
// recorded as notifications in the view state.
func (h *CatalogHandler) finishSubmission(c *gin.Context, handler string, err error) {
	handlerLogger := h.log.WithField("handler", handler)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNothingToSubmit):
		handlerLogger.Debug("Submission skipped: required fields are empty")
	case errors.Is(err, usecase.ErrClosed):
		handlerLogger.Warn("Submission rejected: catalog view is closed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Service is shutting down"})
		return
	default:
		handlerLogger.Debugf("Submission failed: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *CatalogHandler) DismissNotification(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "DismissNotification")
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		handlerLogger.Warnf("Invalid notification ID parameter: %s", idStr)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid notification ID format"})
		return
	}

	if !h.useCase.DismissNotification(id) {
		// Usually already expired and pruned.
		handlerLogger.Debugf("Notification %s not found", id)
		if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Notification not found"})
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

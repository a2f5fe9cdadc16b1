package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogueapp "github.com/seedlink/backend/internal/application/catalogue"
	"github.com/seedlink/backend/internal/domain/catalogue"
	"github.com/seedlink/backend/internal/infrastructure/logger"
	"github.com/seedlink/backend/internal/infrastructure/printing"
	"github.com/seedlink/backend/internal/interfaces/http/dto"
	"github.com/seedlink/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// CatalogueGenerator renders catalogue requests
type CatalogueGenerator interface {
	GenerateDocument(ctx context.Context, req catalogue.Request) (*catalogueapp.Document, error)
	Preview(ctx context.Context, req catalogue.Request) (string, error)
}

// CatalogueFiles serves previously generated PDFs
type CatalogueFiles interface {
	Open(ctx context.Context, name string) (io.ReadCloser, *printing.StoredFile, error)
}

// CatalogueHandler handles catalogue API endpoints
type CatalogueHandler struct {
	BaseHandler
	generator CatalogueGenerator
	files     CatalogueFiles
}

// NewCatalogueHandler creates a new CatalogueHandler
func NewCatalogueHandler(generator CatalogueGenerator, files CatalogueFiles) *CatalogueHandler {
	return &CatalogueHandler{
		generator: generator,
		files:     files,
	}
}

// Generate renders the catalogue to a PDF and describes the file.
// POST /catalogues
func (h *CatalogueHandler) Generate(c *gin.Context) {
	var req GenerateCatalogueRequest
	if !h.bind(c, &req) {
		return
	}

	doc, err := h.generator.GenerateDocument(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.handleGenerateError(c, err)
		return
	}

	h.Created(c, NewCatalogueResponse(doc))
}

// Preview renders the catalogue HTML only.
// POST /catalogues/preview
func (h *CatalogueHandler) Preview(c *gin.Context) {
	var req GenerateCatalogueRequest
	if !h.bind(c, &req) {
		return
	}

	html, err := h.generator.Preview(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.handleGenerateError(c, err)
		return
	}

	h.Success(c, PreviewResponse{HTML: html})
}

// Download streams a generated PDF.
// GET /catalogues/files/:name
func (h *CatalogueHandler) Download(c *gin.Context) {
	name := c.Param("name")

	rc, file, err := h.files.Open(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, printing.ErrInvalidFileName):
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidFileName, "Invalid catalogue file name")
		case errors.Is(err, printing.ErrFileNotFound):
			h.NotFound(c, "Catalogue not found")
		default:
			logger.GetGinLogger(c).Error("Failed to open catalogue", zap.String("name", name), zap.Error(err))
			h.InternalError(c, "Failed to open catalogue")
		}
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, file.Size, "application/pdf", rc, map[string]string{
		"Content-Disposition": `inline; filename="` + file.Name + `"`,
	})
}

// bind decodes the JSON body and writes the error response on failure
func (h *CatalogueHandler) bind(c *gin.Context, req *GenerateCatalogueRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleGenerateError maps generator errors to responses. The generator
// returns either a RenderFailure or the template engine's own error.
func (h *CatalogueHandler) handleGenerateError(c *gin.Context, err error) {
	log := logger.GetGinLogger(c)

	var failure *catalogueapp.RenderFailure
	if errors.As(err, &failure) {
		code := dto.ErrCodeRenderFailed
		if failure.Code() == printing.ErrCodeRenderTimeout {
			code = dto.ErrCodeRenderTimeout
		}
		log.Warn("Catalogue rendering failed", zap.String("renderer_code", failure.Code()), zap.Error(err))
		resp := dto.NewErrorResponseWithRequestID(code, err.Error(), getRequestID(c))
		resp.Error.Detail = failure.Code()
		c.JSON(dto.GetHTTPStatus(code), resp)
		return
	}

	log.Warn("Catalogue template failed", zap.Error(err))
	h.ErrorWithCode(c, dto.ErrCodeTemplate, err.Error())
}

// CatalogueRoutes creates the route group for catalogue endpoints
func CatalogueRoutes(h *CatalogueHandler) *router.DomainGroup {
	group := router.NewDomainGroup("catalogue", "/catalogues")
	group.POST("", h.Generate)
	group.POST("/preview", h.Preview)
	group.GET("/files/:name", h.Download)
	return group
}

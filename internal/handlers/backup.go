// internal/handlers/backup.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beautyshelf/beautyshelf-backend/internal/reconcile"
	"github.com/beautyshelf/beautyshelf-backend/internal/services"
	"github.com/beautyshelf/beautyshelf-backend/internal/utils"
)

const backupFilename = "skincare_products_backup.json"

type BackupHandler struct {
	productService *services.ProductService
}

func NewBackupHandler(productService *services.ProductService) *BackupHandler {
	return &BackupHandler{
		productService: productService,
	}
}

// GET /backup/export
func (h *BackupHandler) Export(c *gin.Context) {
	payload, err := h.productService.Export()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+backupFilename+`"`)
	c.Data(http.StatusOK, "application/json", payload)
}

// POST /backup/import?mode=replace|merge
func (h *BackupHandler) Import(c *gin.Context) {
	mode := reconcile.Mode(c.DefaultQuery("mode", string(reconcile.ModeReplace)))
	if mode != reconcile.ModeReplace && mode != reconcile.ModeMergeByID {
		utils.BadRequestResponse(c, "Unknown import mode", string(mode))
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read import payload", err.Error())
		return
	}

	count, err := h.productService.Import(raw, mode)
	if err != nil {
		var formatErr *reconcile.ImportFormatError
		if errors.As(err, &formatErr) {
			utils.ImportFormatErrorResponse(c, formatErr.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"imported": count,
		"mode":     mode,
	})
}

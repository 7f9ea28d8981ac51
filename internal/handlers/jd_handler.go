package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type JDHandler struct {
	jdService services.JDService
}

func NewJDHandler(jdService services.JDService) *JDHandler {
	return &JDHandler{
		jdService: jdService,
	}
}

// HandleList returns every JD, narrowed by the optional id and category
// query parameters.
func (h *JDHandler) HandleList(c *fiber.Ctx) error {
	filter := models.JDFilter{
		ID:       c.Query("id"),
		Category: c.Query("category"),
	}

	jds, err := h.jdService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	if jds == nil {
		jds = []models.JobDescription{}
	}

	return c.JSON(jds)
}

// HandleManage deletes the JD named by id when the body carries "delete": true.
// Anything else, including a delete without an id, is an upsert.
func (h *JDHandler) HandleManage(c *fiber.Ctx) error {
	var req models.ManageJDRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return respondError(c, apperrors.Validation("Invalid JSON data"))
	}

	if req.Delete && strings.TrimSpace(req.ID) != "" {
		if err := h.jdService.Delete(c.UserContext(), req.ID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(models.ManageJDResponse{
			Status:  statusSuccess,
			Message: "job description deleted",
		})
	}

	jd, err := h.jdService.Upsert(c.UserContext(), req.ID, req.Data)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ManageJDResponse{
		ID:     jd.ID,
		Status: statusSuccess,
	})
}

// HandleImport bulk-loads JDs from a spreadsheet sent as the raw body or as
// the "file" part of a multipart form.
func (h *JDHandler) HandleImport(c *fiber.Ctx) error {
	data, _, _, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	jds, err := h.jdService.Import(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]models.ImportedJD, 0, len(jds))
	for _, jd := range jds {
		items = append(items, models.ImportedJD{ID: jd.ID, Title: jd.Title})
	}

	return c.JSON(models.ImportJDResponse{
		Status:   statusSuccess,
		Imported: len(items),
		Items:    items,
	})
}

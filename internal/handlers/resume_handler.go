package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ResumeHandler struct {
	resumeService services.ResumeService
}

func NewResumeHandler(resumeService services.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
	}
}

// HandleProcessResume accepts the file either as the raw request body or as
// the "file" part of a multipart form.
func (h *ResumeHandler) HandleProcessResume(c *fiber.Ctx) error {
	data, contentType, fileName, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}

	doc, text, err := h.resumeService.Process(c.UserContext(), data, contentType, fileName)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ProcessResumeResponse{
		FileID:      doc.FileID,
		FileName:    doc.FileName,
		TextContent: text,
		Status:      statusSuccess,
	})
}

func readUpload(c *fiber.Ctx) ([]byte, string, string, error) {
	contentType := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), fiber.MIMEMultipartForm) {
		fileName := c.Get("X-File-Name")
		if fileName == "" {
			fileName = c.Get("x-ms-file-name")
		}
		// Body is only valid for the lifetime of the handler.
		return append([]byte(nil), c.Body()...), contentType, fileName, nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", "", apperrors.Validation("multipart request has no \"file\" part")
	}

	f, err := header.Open()
	if err != nil {
		return nil, "", "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "failed to open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "failed to read uploaded file")
	}

	return data, header.Header.Get(fiber.HeaderContentType), header.Filename, nil
}

package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode"

	"vzsocial/internal/middleware"
	"vzsocial/internal/models"
	"vzsocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxFilesPerRequest = 10

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "post_id" -> "post ID", "movieId" -> "movie ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if prefix, ok := strings.CutSuffix(param, "_id"); ok {
		return strings.ReplaceAll(prefix, "_", " ") + " ID"
	}
	if prefix, ok := strings.CutSuffix(param, "Id"); ok {
		return strings.ToLower(strings.Join(splitCamel(prefix), " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondError maps err to its status. Internal failures are logged with the
// request context and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// actingCustomer resolves the customer a write acts for. Clients send the id in
// the body; when a customer token is present it must agree with the body.
func actingCustomer(c *fiber.Ctx, bodyID uint) (uint, error) {
	viewer, ok := middleware.ViewerID(c)
	switch {
	case !ok:
		return bodyID, nil
	case bodyID == 0:
		return viewer, nil
	case bodyID != viewer:
		return 0, models.NewForbiddenError("Cannot act on behalf of another account")
	}
	return bodyID, nil
}

// viewerOf returns the authenticated customer id, or 0 for anonymous callers.
func viewerOf(c *fiber.Ctx) uint {
	id, _ := middleware.ViewerID(c)
	return id
}

// flexID accepts ids sent either as JSON numbers or numeric strings.
type flexID uint

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*f = flexID(v)
	return nil
}

// formUint parses an optional numeric form value. Empty yields 0.
func formUint(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, models.NewValidationError(key + " must be a number")
	}
	return uint(v), nil
}

// readUploads loads every file sent under field into memory, rejecting files
// larger than the configured per-file limit.
func (s *Server) readUploads(form *multipart.Form, field string) ([]service.FileUpload, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field]
	if len(headers) > maxFilesPerRequest {
		return nil, models.NewValidationError(fmt.Sprintf("at most %d files are allowed for %s", maxFilesPerRequest, field))
	}

	limit := int64(s.config.MediaMaxUploadSizeMB) * 1024 * 1024
	files := make([]service.FileUpload, 0, len(headers))
	for _, fh := range headers {
		if limit > 0 && fh.Size > limit {
			return nil, models.NewValidationError(fmt.Sprintf("file %q exceeds %d MB", fh.Filename, s.config.MediaMaxUploadSizeMB))
		}
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("could not read file %q", fh.Filename))
		}
		files = append(files, service.FileUpload{
			Field:       field,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

// readUpload is readUploads for single-file fields. A missing file yields nil.
func (s *Server) readUpload(form *multipart.Form, field string) (*service.FileUpload, error) {
	files, err := s.readUploads(form, field)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	if len(files) > 1 {
		return nil, models.NewValidationError("only one file is allowed for " + field)
	}
	return &files[0], nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

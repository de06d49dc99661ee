package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/JonMunkholm/datapilot/internal/logging"
)

// multipartMemory is how much of a multipart form is buffered in memory
// before spilling to temp files.
const multipartMemory = 8 << 20

// uploadResponse is the body returned for a batch upload.
type uploadResponse struct {
	Files  []core.UploadOutcome `json:"files"`
	Status core.SessionStatus   `json:"status"`
}

// handleUpload accepts one or more CSV/XLSX files as multipart form fields
// named "files" (or "file"), with an optional "category" to force the entity
// type. Each file is parsed and validated; a rejected file does not fail the
// rest of the batch.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxFiles := int64(s.cfg.Upload.MaxFilesPerBatch)
	if maxFiles < 1 {
		maxFiles = 1
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize*maxFiles+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.respondError(w, r, fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, tooBig.Limit))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var category core.Category
	if v := r.FormValue("category"); v != "" {
		c, err := core.ParseCategory(v)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		category = c
	}

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["files"]...)
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		s.respondError(w, r, errNoFile)
		return
	}

	inputs := make([]core.UploadInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll(inputs)
			s.respondError(w, r, fmt.Errorf("%w: %s: %v", errInvalidBody, fh.Filename, err))
			return
		}
		inputs = append(inputs, core.UploadInput{Name: fh.Filename, Reader: f, Category: category})
	}
	defer closeAll(inputs)

	outcomes, err := s.service.UploadBatch(r.Context(), inputs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	accepted := 0
	for _, o := range outcomes {
		if o.OK() {
			accepted++
		}
	}
	logging.FromContext(r.Context()).Info("upload batch",
		"files", len(outcomes),
		"accepted", accepted,
		"category", category,
	)

	writeJSON(w, uploadResponse{Files: outcomes, Status: s.service.Status()})
}

func closeAll(inputs []core.UploadInput) {
	for _, in := range inputs {
		if f, ok := in.Reader.(multipart.File); ok {
			f.Close()
		}
	}
}

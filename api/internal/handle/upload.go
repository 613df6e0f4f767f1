package handle

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
)

// multipart parts above this size spill to os temp files owned by net/http
const formMemory = 8 << 20

var errTooLarge = errors.New("request body too large")

// readFile pulls one multipart file field into memory.
func (h *Handle) readFile(w http.ResponseWriter, r *http.Request, field string) (pipeline.Upload, error) {
	if h.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		if isTooLarge(err) {
			return pipeline.Upload{}, errTooLarge
		}
		return pipeline.Upload{}, fmt.Errorf("parse form: %w", err)
	}

	f, hdr, err := r.FormFile(field)
	if err != nil {
		return pipeline.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("read %s: %w", field, err)
	}
	return pipeline.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func (h *Handle) tooLargeMessage() string {
	return fmt.Sprintf("El archivo excede el tamaño máximo permitido (%d MB)", h.opts.MaxUploadBytes>>20)
}

// Upload handles POST /upload with the multipart field "file".
func (h *Handle) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	up, err := h.readFile(w, r, "file")
	switch {
	case errors.Is(err, errTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	case err != nil:
		h.log.Debug("upload without file", zap.Error(err))
		writeError(w, http.StatusBadRequest, pipeline.MsgNoFile)
		return
	}

	res, err := h.pipeline.Process(r.Context(), up)
	if err != nil {
		var ve *pipeline.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.log.Error("upload processing failed", zap.String("filename", up.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error procesando la imagen: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

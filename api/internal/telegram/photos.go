package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/config"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
)

var httpc = &http.Client{Timeout: 60 * time.Second}

var errTooLarge = errors.New("la imagen excede el tamaño máximo permitido")

func (r *Router) maxBytes() int64 {
	if r.MaxBytes > 0 {
		return r.MaxBytes
	}
	return config.MaxContentLength
}

func (r *Router) acceptImage(ctx context.Context, chatID int64, fileID, filename, mime string) {
	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		r.send(chatID, "No pude obtener el archivo: "+err.Error())
		return
	}

	dl := r.Download
	if dl == nil {
		dl = func(ctx context.Context, url string) ([]byte, error) {
			return download(ctx, url, r.maxBytes())
		}
	}
	img, err := dl(ctx, url)
	if err != nil {
		r.send(chatID, "No pude descargar la imagen: "+err.Error())
		return
	}

	r.send(chatID, "Recibí la imagen, analizando…")

	res, err := r.Pipeline.Process(ctx, pipeline.Upload{Filename: filename, ContentType: mime, Data: img})
	if err != nil {
		var ve *pipeline.ValidationError
		if errors.As(err, &ve) {
			r.send(chatID, ve.Message)
			return
		}
		r.logger().Error("telegram upload failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.send(chatID, "Error procesando la imagen: "+err.Error())
		return
	}

	r.send(chatID, res.Analysis)
}

func download(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	if resp.ContentLength > limit {
		return nil, errTooLarge
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errTooLarge
	}
	return b, nil
}

package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/scratch"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"
)

type fakeAPI struct {
	mu    sync.Mutex
	sent  []string
	url   string
	urlFn error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFileDirectURL(string) (string, error) { return f.url, f.urlFn }

func (f *fakeAPI) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type replyEngine struct{ reply string }

func (e replyEngine) Name() string     { return "reply" }
func (e replyEngine) GetModel() string { return "reply-1" }
func (e replyEngine) Configured() bool { return true }
func (e replyEngine) Describe(context.Context, []byte, string, string) (string, error) {
	return e.reply, nil
}
func (e replyEngine) Labels(context.Context, []byte, string, string) (string, error) {
	return "[]", nil
}

func newRouter(t *testing.T, api *fakeAPI, reply string) *Router {
	t.Helper()
	dir, err := scratch.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := pipeline.New(dir, vision.NewAnalyzer(replyEngine{reply: reply}, nil, nil), nil, nil)
	return &Router{Bot: api, Pipeline: p, GeminiConfigured: true}
}

func command(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestCommands(t *testing.T) {
	api := &fakeAPI{}
	r := newRouter(t, api, "")

	r.HandleUpdate(context.Background(), command("/health"))
	if !strings.Contains(api.last(), "Gemini configurado") {
		t.Errorf("/health reply = %q", api.last())
	}
	r.GeminiConfigured = false
	r.HandleUpdate(context.Background(), command("/health"))
	if !strings.Contains(api.last(), "no está configurada") {
		t.Errorf("/health reply = %q", api.last())
	}
	r.HandleUpdate(context.Background(), command("/start"))
	if !strings.Contains(api.last(), "/health") {
		t.Errorf("/start reply = %q", api.last())
	}
	r.HandleUpdate(context.Background(), command("/dance"))
	if api.last() != "Comando desconocido" {
		t.Errorf("unknown reply = %q", api.last())
	}
}

func TestPhotoIsAnalyzed(t *testing.T) {
	img := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	api := &fakeAPI{url: srv.URL + "/file/photo.jpg"}
	r := newRouter(t, api, "un cuadrado rojo")

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 7},
		Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "big"}},
	}})

	if api.last() != "un cuadrado rojo" {
		t.Errorf("reply = %q, sent = %v", api.last(), api.sent)
	}
}

func TestDocumentWithBadExtension(t *testing.T) {
	api := &fakeAPI{url: "http://unused"}
	r := newRouter(t, api, "x")
	r.Download = func(context.Context, string) ([]byte, error) { return []byte("%PDF-"), nil }

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 7},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "scan.pdf", MimeType: "application/pdf"},
	}})

	if api.last() != pipeline.MsgBadExtension {
		t.Errorf("reply = %q", api.last())
	}
}

func TestDownloadFailure(t *testing.T) {
	api := &fakeAPI{urlFn: errors.New("file is too big")}
	r := newRouter(t, api, "x")

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 7},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	}})
	if !strings.Contains(api.last(), "file is too big") {
		t.Errorf("reply = %q", api.last())
	}
}

func TestDownloadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := download(context.Background(), srv.URL, 1<<20); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v", err)
	}
}

func TestDownloadSizeCap(t *testing.T) {
	tests := []struct {
		name    string
		chunked bool
	}{
		{"declared length", false},
		{"chunked", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body := bytes.Repeat([]byte{0xFF}, 2048)
				if tt.chunked {
					_, _ = w.Write(body[:1024])
					w.(http.Flusher).Flush()
					_, _ = w.Write(body[1024:])
					return
				}
				w.Header().Set("Content-Length", "2048")
				_, _ = w.Write(body)
			}))
			defer srv.Close()

			if _, err := download(context.Background(), srv.URL, 1024); !errors.Is(err, errTooLarge) {
				t.Fatalf("err = %v, want errTooLarge", err)
			}
			b, err := download(context.Background(), srv.URL, 2048)
			if err != nil || len(b) != 2048 {
				t.Fatalf("at cap: len = %d, err = %v", len(b), err)
			}
		})
	}
}

func TestOversizedPhotoIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0xFF}, 4096))
	}))
	defer srv.Close()

	api := &fakeAPI{url: srv.URL + "/file/photo.jpg"}
	r := newRouter(t, api, "nunca")
	r.MaxBytes = 1024

	r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 7},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	}})
	if !strings.Contains(api.last(), errTooLarge.Error()) {
		t.Errorf("reply = %q", api.last())
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("ñ", maxMessageRunes+10)
	got := truncate(long, maxMessageRunes)
	if n := utf8.RuneCountInString(got); n != maxMessageRunes+1 {
		t.Errorf("rune count = %d", n)
	}
	if truncate("corto", maxMessageRunes) != "corto" {
		t.Error("short text changed")
	}
}

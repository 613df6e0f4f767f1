// Package web renders the single upload page.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*
var templates embed.FS

type PageData struct {
	Title            string
	UploadURL        string
	MaxUploadMB      int64
	GeminiConfigured bool
}

type Page struct {
	tmpl *template.Template
	data PageData
}

func NewPage(data PageData) (*Page, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}
	if data.Title == "" {
		data.Title = "AI Image Analyzer"
	}
	if data.UploadURL == "" {
		data.UploadURL = "/upload"
	}
	return &Page{tmpl: tmpl, data: data}, nil
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, p.data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

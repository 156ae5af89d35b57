// Package ui serves a small web front end over a codebase: the list of
// checked files, a per-file view with diagnostics and postfix trace, and a
// scratch form for checking pasted source.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/ymp/format"
	"github.com/dhamidi/ymp/ymp"
	"github.com/dhamidi/ymp/ymp/codebase"
	"github.com/dhamidi/ymp/ymp/semantic"
)

//go:embed static templates
var embeddedFS embed.FS

// maxSource caps the body of POST /check.
const maxSource = 1 << 20

type Server struct {
	codebase   *codebase.Codebase
	staticFS   fs.FS
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

func NewServer(c *codebase.Codebase) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"plural": func(n int, word string) string {
			if n == 1 {
				return fmt.Sprintf("%d %s", n, word)
			}
			return fmt.Sprintf("%d %ss", n, word)
		},
		"relPath": func(path string) string {
			return relPath(c.RootDir(), path)
		},
	}

	// Parse once up front so that a broken template fails at startup.
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		codebase:   c,
		staticFS:   staticFS,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /check", s.handleCheck)
	s.mux.HandleFunc("GET /f/{path...}", s.handleFile)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render re-reads the templates on every request so edits under
// ui/templates show up without a restart.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}

func writeJSON(w http.ResponseWriter, res *ymp.Result) {
	w.Header().Set("Content-Type", "application/json")
	if err := format.NewJSONEncoder(w).Encode(res); err != nil {
		http.Error(w, "encode: "+err.Error(), http.StatusInternalServerError)
	}
}

type fileSummary struct {
	Path     string
	Syntax   int
	Semantic int
	Analyzed bool
}

func (f fileSummary) OK() bool {
	return f.Syntax == 0 && f.Semantic == 0
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var files []fileSummary
	for _, path := range s.codebase.Paths() {
		info := s.codebase.GetFile(path)
		if info == nil {
			continue
		}
		files = append(files, fileSummary{
			Path:     path,
			Syntax:   len(info.Result.Syntax),
			Semantic: len(info.Result.Semantic()),
			Analyzed: info.Result.Analyzed(),
		})
	}

	data := struct {
		Root  string
		Files []fileSummary
	}{
		Root:  s.codebase.RootDir(),
		Files: files,
	}
	s.render(w, "index.html", data)
}

type sourceLine struct {
	Number int
	Text   string
	Errors []string
}

type resultView struct {
	Title    string
	Lines    []sourceLine
	Syntax   []string
	Semantic []string
	Analyzed bool
	Postfix  []string
	Symbols  []semantic.Symbol
}

// newResultView lays out the source with each diagnostic attached to the
// line it was reported on.
func newResultView(title string, res *ymp.Result) resultView {
	v := resultView{
		Title:    title,
		Syntax:   res.SyntaxErrors(),
		Semantic: res.SemanticErrors(),
		Analyzed: res.Analyzed(),
		Postfix:  res.Postfix(),
		Symbols:  res.Symbols(),
	}

	for i, text := range strings.Split(string(res.Source), "\n") {
		v.Lines = append(v.Lines, sourceLine{Number: i + 1, Text: strings.TrimRight(text, "\r")})
	}
	attach := func(line int, msg string) {
		if line >= 1 && line <= len(v.Lines) {
			v.Lines[line-1].Errors = append(v.Lines[line-1].Errors, msg)
		}
	}
	for _, d := range res.Syntax {
		attach(d.Pos.Line, d.Message)
	}
	for _, d := range res.Semantic() {
		attach(d.Line, d.Message)
	}
	return v
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := filepath.FromSlash(r.PathValue("path"))
	info := s.codebase.GetFile(filepath.Join(s.codebase.RootDir(), rel))
	if info == nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, info.Result)
		return
	}
	s.render(w, "file.html", newResultView(info.Path, info.Result))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSource)

	var source string
	if r.Header.Get("Content-Type") == "application/json" {
		var req struct {
			Source string `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		source = req.Source
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		source = r.FormValue("source")
	}

	if strings.TrimSpace(source) == "" {
		http.Error(w, "must provide source", http.StatusBadRequest)
		return
	}

	res := ymp.Check("scratch.ymp", []byte(source))
	if wantsJSON(r) {
		writeJSON(w, res)
		return
	}
	s.render(w, "file.html", newResultView("scratch", res))
}

// relPath is path relative to root in slash form, or path itself when it
// lies outside root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS prefers files under primaryPath on disk and falls back to the
// embedded copy.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}

package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/ymp/ymp/codebase"
)

func newTestServer(t *testing.T, files map[string]string) *Server {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cb := codebase.New(dir)
	if err := cb.ScanAll(); err != nil {
		t.Fatal(err)
	}
	s, err := NewServer(cb)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func get(t *testing.T, s *Server, target string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsFiles(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"good.ymp":    "int f() { int a; a = 1; return a; }",
		"sub/bad.ymp": "int f() { int a; a = ; return a; }",
		"notes.txt":   "ignored",
	})

	rec := get(t, s, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{`href="/f/good.ymp"`, `href="/f/sub/bad.ymp"`, "0 errors", "skipped"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, "notes.txt") {
		t.Error("index lists a non-source file")
	}
}

func TestFileView(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"sem.ymp": "int f() {\nchar c;\nreturn c;\n}",
	})

	rec := get(t, s, "/f/sem.ymp", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"No syntax errors found.",
		"function returns int but variable is char",
		`<tr class="error">`,
		"c RETURN",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("file view missing %q", want)
		}
	}
}

func TestFileViewJSON(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"ok.ymp": "int f() { int a; a = 2; return a; }",
	})

	rec := get(t, s, "/f/ok.ymp", "application/json")
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type: %q", got)
	}
	var out struct {
		Analyzed bool     `json:"analyzed"`
		Postfix  []string `json:"postfix"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body)
	}
	if !out.Analyzed || len(out.Postfix) != 3 {
		t.Errorf("got %+v", out)
	}
}

func TestFileNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	if rec := get(t, s, "/f/missing.ymp", ""); rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestCheckForm(t *testing.T) {
	s := newTestServer(t, nil)

	form := url.Values{"source": {"int f() { int a; a = ; return a; }"}}
	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Syntax errors") {
		t.Error("syntax errors not shown")
	}
	if strings.Contains(body, "Postfix notation") {
		t.Error("postfix shown despite syntax errors")
	}
}

func TestCheckJSON(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"source": "char g() { char s; s = \"x\"; return s; }"}`, http.StatusOK},
		{"empty", `{"source": "  "}`, http.StatusBadRequest},
		{"malformed", `{"source":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("got status %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.status != http.StatusOK {
				return
			}
			var out struct {
				File string `json:"file"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatal(err)
			}
			if out.File != "scratch.ymp" {
				t.Errorf("file: got %q", out.File)
			}
		})
	}
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/static/style.css", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "table.source") {
		t.Errorf("status %d", rec.Code)
	}
}

func TestRelPath(t *testing.T) {
	root := filepath.Join("srv", "code")
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(root, "a.ymp"), "a.ymp"},
		{filepath.Join(root, "x", "b.ymp"), "x/b.ymp"},
		{filepath.Join("elsewhere", "c.ymp"), "elsewhere/c.ymp"},
	}
	for _, tt := range tests {
		if got := relPath(root, tt.path); got != tt.want {
			t.Errorf("relPath(%q): got %q, want %q", tt.path, got, tt.want)
		}
	}
}

// Package codebase keeps the checked state of every .ymp file under a root
// directory and serves it to the language server and the file watcher.
package codebase

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dhamidi/ymp/ymp"
	"github.com/dhamidi/ymp/ymp/parser"
	"github.com/tliron/commonlog"
)

const sourceExt = ".ymp"

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
	log     commonlog.Logger
}

type FileInfo struct {
	Path    string
	Content []byte
	Result  *ymp.Result
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
		log:     commonlog.GetLogger("ymp.codebase"),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll checks every source file below the root. Unreadable entries are
// skipped.
func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == sourceExt {
			if err := c.ScanFile(path); err != nil {
				c.log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile re-checks path with the given content and replaces any earlier
// state for it.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	res := ymp.Check(path, content)
	info := &FileInfo{
		Path:    path,
		Content: content,
		Result:  res,
	}

	c.mu.Lock()
	c.files[path] = info
	c.mu.Unlock()

	c.log.Infof("checked %s: %d syntax, %d semantic errors", path, len(res.Syntax), len(res.Semantic()))
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known file paths in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

type CompletionKind int

const (
	CompletionKindVariable CompletionKind = iota
	CompletionKindFunction
	CompletionKindKeyword
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// Completions offers the names declared in path followed by the language
// keywords. Declarations are read from the parse tree, so a file with
// syntax errors still completes the names that did parse.
func (c *Codebase) Completions(path string) []CompletionItem {
	var items []CompletionItem

	if f := c.GetFile(path); f != nil && f.Result.Tree != nil {
		items = append(items, declaredNames(f.Result.Tree)...)
	}

	for _, kw := range parser.Keywords() {
		items = append(items, CompletionItem{
			Label:      kw,
			Kind:       CompletionKindKeyword,
			InsertText: kw,
		})
	}
	return items
}

func declaredNames(tree *parser.Function) []CompletionItem {
	var items []CompletionItem
	seen := make(map[string]bool)
	add := func(id *parser.Ident, kind CompletionKind, typ *parser.Type) {
		name := id.Name()
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		detail := ""
		if typ != nil && typ.Keyword != nil {
			detail = typ.Keyword.Text
		}
		items = append(items, CompletionItem{
			Label:      name,
			Kind:       kind,
			Detail:     detail,
			InsertText: name,
		})
	}

	parser.Walk(tree, func(n parser.Node) bool {
		switch n := n.(type) {
		case *parser.Begin:
			if n.Name != nil {
				add(n.Name.Id, CompletionKindFunction, n.Type)
			}
			return false
		case *parser.Descr:
			if n.Vars != nil {
				for _, id := range n.Vars.Ids {
					add(id, CompletionKindVariable, n.Type)
				}
			}
			return false
		case *parser.Operators, *parser.End:
			return false
		}
		return true
	})
	return items
}

package codebase

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/xtal/project"
	"github.com/dhamidi/xtal/xtal/parser"
)

var log = commonlog.GetLogger("xtal.codebase")

// Codebase holds the parsed state of every source file of a project.
type Codebase struct {
	mu      sync.RWMutex
	project *project.Project
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	AST     *parser.Node // nil when the parse aborted
	Errors  parser.ErrorList
}

func New(proj *project.Project) *Codebase {
	return &Codebase{
		project: proj,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

// ScanAll parses every source file of the project.
func (c *Codebase) ScanAll() error {
	paths, err := c.project.Files()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := c.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
		}
	}
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile reparses path from content and replaces its entry.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	start := time.Now()
	p := parser.New(content, c.project.ParseOptions(path)...)
	ast, _ := p.ParseFile()
	errs := append(parser.ErrorList(nil), p.Errors()...)
	errs.Sort()

	info := &FileInfo{
		Path:    path,
		Content: content,
		AST:     ast,
		Errors:  errs,
	}
	log.Debugf("parsed %s: %d errors in %s", path, len(errs), time.Since(start))

	c.mu.Lock()
	c.files[path] = info
	c.mu.Unlock()
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

// Files returns every known file, sorted by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	files := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Diagnostics returns the errors of all files in file and offset order.
func (c *Codebase) Diagnostics() parser.ErrorList {
	var all parser.ErrorList
	for _, f := range c.Files() {
		all = append(all, f.Errors...)
	}
	all.Sort()
	return all
}

package virtual

import (
	_ "embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed tree.yaml
var treeYAML []byte

// Entry is one line of a canned directory listing.
type Entry struct {
	Attrs string `yaml:"attrs"`
	Name  string `yaml:"name"`
	Dir   bool   `yaml:"dir"`
}

// Listing is a canned `ls` output.
type Listing struct {
	Total   int     `yaml:"total"`
	Entries []Entry `yaml:"entries"`
}

type treeFile struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

type treeDoc struct {
	Listings struct {
		Home Listing `yaml:"home"`
		Root Listing `yaml:"root"`
	} `yaml:"listings"`
	Dirs  []string   `yaml:"dirs"`
	Files []treeFile `yaml:"files"`
}

// Tree is the read-only file tree below a session's home directory.
type Tree struct {
	Home  Listing
	Root  Listing
	files map[string]string
	dirs  map[string]bool
}

// LoadTree parses a tree document.
func LoadTree(data []byte) (*Tree, error) {
	var doc treeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}

	t := &Tree{
		Home:  doc.Listings.Home,
		Root:  doc.Listings.Root,
		files: make(map[string]string, len(doc.Files)),
		dirs:  map[string]bool{"": true},
	}
	for _, d := range doc.Dirs {
		t.addDir(d)
	}
	for _, f := range doc.Files {
		p := path.Clean(f.Path)
		if p == "." || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("parse tree: invalid file path %q", f.Path)
		}
		t.files[p] = f.Content
		t.addDir(path.Dir(p))
	}
	return t, nil
}

func (t *Tree) addDir(dir string) {
	for dir != "." && dir != "" && !t.dirs[dir] {
		t.dirs[dir] = true
		dir = path.Dir(dir)
	}
}

var (
	defaultTree     *Tree
	defaultTreeOnce sync.Once
)

// DefaultTree returns the embedded tree.
func DefaultTree() *Tree {
	defaultTreeOnce.Do(func() {
		t, err := LoadTree(treeYAML)
		if err != nil {
			panic(err)
		}
		defaultTree = t
	})
	return defaultTree
}

// Open returns the content of the file at rel, a path relative to home.
func (t *Tree) Open(rel string) (string, bool) {
	content, ok := t.files[rel]
	return content, ok
}

// IsDir reports whether rel names a directory. "" is home itself.
func (t *Tree) IsDir(rel string) bool {
	return t.dirs[rel]
}

// Exists reports whether rel is a file or a directory.
func (t *Tree) Exists(rel string) bool {
	_, ok := t.files[rel]
	return ok || t.dirs[rel]
}

// Walk returns every path strictly below rel, sorted.
func (t *Tree) Walk(rel string) []string {
	var out []string
	within := func(p string) bool {
		return rel == "" || strings.HasPrefix(p, rel+"/")
	}
	for p := range t.files {
		if within(p) {
			out = append(out, p)
		}
	}
	for d := range t.dirs {
		if d != "" && d != rel && within(d) {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// Lines splits file content into lines without the trailing terminator.
func Lines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemFilesystemService is a simple in-memory tree of directories and
// files implementing FilesystemService (for tests and unit logic).
type InMemFilesystemService struct {
	mu   sync.RWMutex
	root *memNode
}

type memNode struct {
	name    string
	mode    fs.FileMode
	isDir   bool
	data    []byte
	modTime time.Time
	sub     map[string]*memNode
}

func NewInMemFilesystemService() *InMemFilesystemService {
	return &InMemFilesystemService{
		root: &memNode{
			name:  "/",
			mode:  0o755,
			isDir: true,
			sub:   map[string]*memNode{},
		},
	}
}

func (m *InMemFilesystemService) Stat(p string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.lookup(p, false)
	if err != nil {
		return nil, err
	}
	return memFileInfo{n}, nil
}

func (m *InMemFilesystemService) MkdirAll(p string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == "" || p == "/" || p == "." {
		return nil
	}
	n, err := m.lookup(p, true)
	if err != nil {
		return err
	}
	if !n.isDir {
		return fmt.Errorf("mkdir %s: %w", p, fs.ErrExist)
	}
	n.mode = perm
	return nil
}

func (m *InMemFilesystemService) ReadDir(p string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.lookup(p, false)
	if err != nil {
		return nil, err
	}
	if !n.isDir {
		return nil, fmt.Errorf("not a directory: %s", p)
	}
	names := make([]string, 0, len(n.sub))
	for k := range n.sub {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]fs.DirEntry, 0, len(names))
	for _, name := range names {
		out = append(out, memDirEntry{n.sub[name]})
	}
	return out, nil
}

func (m *InMemFilesystemService) WriteFile(p string, r io.Reader, perm fs.FileMode) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := splitPath(p)
	if len(parts) == 0 {
		return fmt.Errorf("invalid file path: %q", p)
	}
	name := parts[len(parts)-1]
	parent, err := m.lookup(joinPath(parts[:len(parts)-1]), false)
	if err != nil {
		return fmt.Errorf("parent directory not found: %w", err)
	}
	if existing, ok := parent.sub[name]; ok && existing.isDir {
		return fmt.Errorf("write %s: %w", p, fs.ErrExist)
	}
	parent.sub[name] = &memNode{
		name:    name,
		mode:    perm,
		data:    data,
		modTime: time.Now(),
	}
	return nil
}

func (m *InMemFilesystemService) Open(p string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.lookup(p, false)
	if err != nil {
		return nil, err
	}
	if n.isDir {
		return nil, fmt.Errorf("open %s: is a directory", p)
	}
	return io.NopCloser(bytes.NewReader(n.data)), nil
}

func (m *InMemFilesystemService) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == "" || p == "/" || p == "." {
		return errors.New("refusing to remove root or invalid path")
	}

	parts := splitPath(p)
	if len(parts) == 0 {
		return errors.New("invalid path")
	}
	base := parts[len(parts)-1]
	parent, err := m.lookup(joinPath(parts[:len(parts)-1]), false)
	if err != nil {
		return fmt.Errorf("parent not found: %w", err)
	}
	target, ok := parent.sub[base]
	if !ok {
		return fs.ErrNotExist
	}
	if target.isDir && len(target.sub) > 0 {
		return fmt.Errorf("directory not empty: %s", p)
	}
	delete(parent.sub, base)
	return nil
}

/* ---------- Helpers ---------- */

func splitPath(p string) []string {
	p = filepath.Clean(p)
	if p == "/" || p == "." {
		return nil
	}
	p = strings.TrimPrefix(p, string(filepath.Separator))
	if p == "" {
		return nil
	}
	return strings.Split(p, string(filepath.Separator))
}

func joinPath(parts []string) string {
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

func (m *InMemFilesystemService) lookup(p string, create bool) (*memNode, error) {
	cur := m.root
	for _, part := range splitPath(p) {
		if part == "" || part == "." {
			continue
		}
		if !cur.isDir {
			return nil, fs.ErrNotExist
		}
		next, ok := cur.sub[part]
		if !ok {
			if !create {
				return nil, fs.ErrNotExist
			}
			next = &memNode{name: part, mode: 0o755, isDir: true, sub: map[string]*memNode{}}
			cur.sub[part] = next
		}
		cur = next
	}
	return cur, nil
}

/* ---------- DirEntry wrapper ---------- */

type memDirEntry struct {
	n *memNode
}

func (e memDirEntry) Name() string { return e.n.name }
func (e memDirEntry) IsDir() bool  { return e.n.isDir }
func (e memDirEntry) Type() fs.FileMode {
	if e.n.isDir {
		return fs.ModeDir
	}
	return 0
}
func (e memDirEntry) Info() (fs.FileInfo, error) { return memFileInfo{e.n}, nil }

/* ---------- FileInfo wrapper ---------- */

type memFileInfo struct {
	n *memNode
}

var _ fs.FileInfo = (*memFileInfo)(nil)

func (f memFileInfo) Name() string { return f.n.name }
func (f memFileInfo) Size() int64  { return int64(len(f.n.data)) }
func (f memFileInfo) Mode() fs.FileMode {
	if f.n.isDir {
		return f.n.mode | fs.ModeDir
	}
	return f.n.mode
}
func (f memFileInfo) ModTime() time.Time { return f.n.modTime }
func (f memFileInfo) IsDir() bool        { return f.n.isDir }
func (f memFileInfo) Sys() any           { return nil }

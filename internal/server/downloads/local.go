package downloads

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/referralhub/internal/common"
)

// LocalSource serves the regular files directly inside dir.
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

func (l *LocalSource) List(_ context.Context) ([]File, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []File{}, nil
		}
		return nil, fmt.Errorf("read downloads dir: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (l *LocalSource) Resolve(_ context.Context, name string) (Target, error) {
	name, ok := cleanName(name)
	if !ok || strings.Contains(name, "/") {
		return Target{}, common.ErrorNotFound
	}

	p := filepath.Join(l.dir, name)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return Target{}, common.ErrorNotFound
	}
	return Target{Path: p}, nil
}

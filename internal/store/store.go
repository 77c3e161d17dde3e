// Package store is the filesystem-backed artifact store. Artifacts live in
// one flat directory, named <job-identifier>.<ext>; there are no
// subdirectories and no sidecar metadata.
package store

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/grabtube/grabtube/internal/model"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ Lister   = (*Store)(nil)
	_ Resolver = (*Store)(nil)
	_ Deleter  = (*Store)(nil)
	_ Opener   = (*Store)(nil)
)

// partialExts are extensions the extraction collaborator uses for
// in-progress or intermediate files. Resolve never returns these.
var partialExts = map[string]bool{
	"part":     true,
	"ytdl":     true,
	"temp":     true,
	"tmp":      true,
	"download": true,
}

// fstreamSegment matches yt-dlp's per-stream intermediates, e.g. the f140
// in "1700000000.f140.m4a".
var fstreamSegment = regexp.MustCompile(`^f\d+$`)

// FileInfo describes one artifact at snapshot time.
type FileInfo struct {
	Name       string
	SizeBytes  int64
	ModifiedAt time.Time
}

// Store provides access to the artifact directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns a one-shot snapshot of every regular file in the store.
func (s *Store) List(_ context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read download dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Raced a delete; the file is simply gone.
			continue
		}
		files = append(files, FileInfo{
			Name:       e.Name(),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return files, nil
}

// Resolve finds the final artifact for the given job identifier: the file
// named <id>.<ext> whose extension chain carries no partial or intermediate
// segment. Returns a NotFound error when no such file exists.
func (s *Store) Resolve(ctx context.Context, id string) (string, error) {
	files, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if !strings.HasPrefix(f.Name, id+".") {
			continue
		}
		if isPartial(f.Name[len(id)+1:]) {
			continue
		}
		return f.Name, nil
	}
	return "", model.NewError(model.KindNotFound, "no artifact for "+id, nil)
}

// Contains reports whether any file, partial or final, uses id as its stem.
// Used by identifier generation to avoid clobbering an existing artifact.
func (s *Store) Contains(id string) bool {
	matches, err := filepath.Glob(filepath.Join(s.dir, id+".*"))
	return err == nil && len(matches) > 0
}

// Delete removes the named file. Returns false with no error when the file
// is already gone, so a client delete racing a sweep never fails.
func (s *Store) Delete(_ context.Context, name string) (bool, error) {
	clean, err := s.sanitize(name)
	if err != nil {
		return false, err
	}
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete %s: %w", clean, err)
	}
	return true, nil
}

// Open returns a reader over the named artifact plus its metadata.
func (s *Store) Open(_ context.Context, name string) (io.ReadSeekCloser, FileInfo, error) {
	clean, err := s.sanitize(name)
	if err != nil {
		return nil, FileInfo{}, err
	}
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileInfo{}, model.NewError(model.KindNotFound, "file not found", err)
		}
		return nil, FileInfo{}, fmt.Errorf("open %s: %w", clean, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, FileInfo{}, fmt.Errorf("stat %s: %w", clean, err)
	}
	return f, FileInfo{Name: clean, SizeBytes: stat.Size(), ModifiedAt: stat.ModTime()}, nil
}

// sanitize constrains a client-supplied name to the store namespace by
// reducing it to its base name. Path traversal cannot escape the flat
// directory regardless of what the client sends.
func (s *Store) sanitize(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "" || clean == "." || clean == ".." || clean == string(filepath.Separator) {
		return "", model.NewError(model.KindNotFound, "file not found", fs.ErrInvalid)
	}
	return clean, nil
}

// isPartial reports whether the extension chain after the identifier stem
// marks an in-progress or intermediate file.
func isPartial(extChain string) bool {
	for _, seg := range strings.Split(extChain, ".") {
		if partialExts[strings.ToLower(seg)] || fstreamSegment.MatchString(seg) {
			return true
		}
	}
	return false
}

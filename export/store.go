package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNoExport is returned when reading an export file that does not exist.
var ErrNoExport = errors.New("no such export")

const (
	tasksDir  = "tasks"
	extension = ".json"
)

// Store keeps export files under a base directory: list exports at the top level, task exports in the tasks
// subdirectory. Keys are slash-separated paths relative to the base directory, e.g., "tasks/fix-login_T-3_2024-01-02.json".
type Store struct {
	d *diskv.Diskv
}

// NewStore creates a store rooted at dir. Nothing is created on disk until the first write.
func NewStore(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      0,
		FilePerm:          0644,
	})}
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKey(pk *diskv.PathKey) string {
	return path.Join(append(append([]string(nil), pk.Path...), pk.FileName)...)
}

// Dir is the base directory.
func (s *Store) Dir() string {
	return s.d.BasePath
}

// Path returns the file system path of the file holding key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.d.BasePath, filepath.FromSlash(key))
}

func (s *Store) write(key string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return s.d.Write(key, append(b, '\n'))
}

func (s *Store) read(key string, v interface{}) error {
	if !s.d.Has(key) {
		return fmt.Errorf("%s: %w", key, ErrNoExport)
	}
	b, err := s.d.Read(key)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// names returns the sorted names of the JSON files directly inside dir ("" for the base directory).
func (s *Store) names(ctx context.Context, dir string) []string {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	var names []string
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		name := strings.TrimPrefix(key, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, extension) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

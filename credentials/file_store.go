package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const fileMode = 0o600

// FileStore keeps the credential pair in a single JSON file, the CLI
// equivalent of the browser's localStorage entries. The whole pair lives in
// one file and is replaced via temp-file + rename, so readers never observe
// one token without the other.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the given file path. The parent
// directory is created on the first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	return &FileStore{path: path}, nil
}

// DefaultPath returns the conventional credentials location under the user
// config dir.
func DefaultPath(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "[DefaultPath] os.UserConfigDir")
	}
	return filepath.Join(dir, appName, "credentials.json"), nil
}

func (fs *FileStore) Load() (Pair, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return Pair{}, nil
	}
	if err != nil {
		return Pair{}, errors.Wrap(err, "[FileStore.Load] read")
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		// Corrupt file is indistinguishable from a partial write: clean up
		// and report logged-out.
		_ = fs.clearLocked()
		return Pair{}, nil
	}

	if !pair.Complete() {
		if !pair.Empty() {
			_ = fs.clearLocked()
		}
		return Pair{}, nil
	}
	return pair, nil
}

func (fs *FileStore) Save(pair Pair) error {
	if !pair.Complete() {
		return errors.New("[FileStore.Save] refusing to persist a partial credential pair")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Save] mkdir")
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal")
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return errors.Wrap(err, "[FileStore.Save] write temp")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "[FileStore.Save] rename")
	}
	return nil
}

func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.clearLocked()
}

func (fs *FileStore) clearLocked() error {
	err := os.Remove(fs.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove")
	}
	return nil
}

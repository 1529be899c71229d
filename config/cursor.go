package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0xbe1/liquidated/gql/models"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
)

var (
	configDirs = configdir.New("0xbe1", "liquidated")
)

// Cursor is the position of the liquidation watcher: the timestamp of the
// last published liquidation and the ids already published at that timestamp.
type Cursor struct {
	Timestamp models.BigInt `json:"timestamp"`
	Seen      []string      `json:"seen"`
}

// Contains reports whether id was already published at the cursor timestamp.
func (c *Cursor) Contains(id string) bool {
	for _, s := range c.Seen {
		if s == id {
			return true
		}
	}
	return false
}

// CursorStore keeps one cursor per watched endpoint in the user config dir.
type CursorStore struct {
	folder *configdir.Config
}

func NewCursorStore() (*CursorStore, error) {
	folders := configDirs.QueryFolders(configdir.Global)
	if len(folders) == 0 {
		return nil, errors.New("no user config directory")
	}
	return &CursorStore{folder: folders[0]}, nil
}

// NewCursorStoreAt keeps cursors under dir instead of the user config dir.
func NewCursorStoreAt(dir string) *CursorStore {
	return &CursorStore{folder: &configdir.Config{Path: dir, Type: configdir.Global}}
}

func cursorPath(endpoint string) string {
	s256 := sha256.New()
	s256.Write([]byte(endpoint))
	return fmt.Sprintf("cursor-%x.json", s256.Sum(nil))
}

// Get returns the cursor of endpoint, or a zero cursor if none was saved.
func (c *CursorStore) Get(endpoint string) (*Cursor, error) {
	contentBytes, err := c.folder.ReadFile(cursorPath(endpoint))
	if err != nil {
		if os.IsNotExist(err) {
			return &Cursor{}, nil
		}
		return nil, errors.Wrap(err, "failed to read cursor")
	}
	cursor := &Cursor{}
	if err := json.Unmarshal(contentBytes, cursor); err != nil {
		return nil, errors.Wrap(err, "failed to decode cursor")
	}
	return cursor, nil
}

func (c *CursorStore) Save(endpoint string, cursor *Cursor) error {
	jsonBytes, err := json.Marshal(cursor)
	if err != nil {
		return err
	}
	return errors.Wrap(c.folder.WriteFile(cursorPath(endpoint), jsonBytes), "failed to save cursor")
}

// Path is the file holding the cursor of endpoint.
func (c *CursorStore) Path(endpoint string) string {
	return filepath.Join(c.folder.Path, cursorPath(endpoint))
}

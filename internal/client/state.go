package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rentexpress/internal/models"
)

const (
	identityFile  = "identity.json"
	selectionFile = "selected_vehicle.json"
)

// User is the identity the client shows. It always comes from a server
// response.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == string(models.RoleAdmin)
}

func userFromPublic(p *models.PublicUser) *User {
	return &User{ID: p.ID, Username: p.Username, Name: p.Name, Email: p.Email, Role: p.Type}
}

func userFromSession(s *models.SessionUser) *User {
	return &User{ID: s.ID, Username: s.Username, Name: s.Name, Role: s.Role}
}

// Identity is the persisted snapshot of a logged-in user.
type Identity struct {
	User    User          `json:"user"`
	Cookies []SavedCookie `json:"cookies,omitempty"`
	SavedAt time.Time     `json:"saved_at"`
}

// StateStore keeps the identity and selection snapshots as JSON files in
// one directory. Missing or unreadable snapshots load as nil; corrupt ones
// are removed.
type StateStore struct {
	dir string
}

func NewStateStore(dir string) *StateStore {
	return &StateStore{dir: dir}
}

// DefaultStateDir is where rentctl keeps its state unless told otherwise.
func DefaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "rentexpress")
	}
	return ".rentexpress"
}

func (s *StateStore) LoadIdentity() (*Identity, error) {
	var id Identity
	ok, err := s.load(identityFile, &id)
	if err != nil || !ok {
		return nil, err
	}
	if id.User.ID == 0 {
		return nil, s.remove(identityFile)
	}
	return &id, nil
}

func (s *StateStore) SaveIdentity(id *Identity) error {
	return s.save(identityFile, id)
}

func (s *StateStore) ClearIdentity() error {
	return s.remove(identityFile)
}

func (s *StateStore) LoadSelection() (*models.Vehicle, error) {
	var v models.Vehicle
	ok, err := s.load(selectionFile, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (s *StateStore) SaveSelection(v *models.Vehicle) error {
	return s.save(selectionFile, v)
}

func (s *StateStore) ClearSelection() error {
	return s.remove(selectionFile)
}

// load reports false when the file is absent or was corrupt and has been
// discarded.
func (s *StateStore) load(name string, dst interface{}) (bool, error) {
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, s.remove(name)
	}
	return true, nil
}

// save writes through a temp file and rename so a crash never leaves a
// half-written snapshot.
func (s *StateStore) save(name string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *StateStore) remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

package props

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// ErrPlanNotFound is returned by LoadFile when the plan file does not exist.
var ErrPlanNotFound = errors.New("test plan file not found")

// FileStore keeps properties in a YAML test-plan file. Property names are dotted
// ("SMTPSampler.server") and end up nested in the file; lookups ignore case.
type FileStore struct {
	fs   afero.Fs
	path string
	v    *viper.Viper
}

// OpenFile opens a plan file, starting empty when it does not exist yet.
func OpenFile(fs afero.Fs, path string) (*FileStore, error) {
	s := &FileStore{
		fs:   fs,
		path: path,
		v:    newPlanViper(fs, path),
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "checking test plan %s", path)
	}
	if !exists {
		return s, nil
	}

	if err := s.v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading test plan %s", path)
	}
	return s, nil
}

// LoadFile opens an existing plan file.
func LoadFile(fs afero.Fs, path string) (*FileStore, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "checking test plan %s", path)
	}
	if !exists {
		return nil, errors.Wrapf(ErrPlanNotFound, "%s", path)
	}
	return OpenFile(fs, path)
}

func newPlanViper(fs afero.Fs, path string) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v
}

func (s *FileStore) Get(name string) string {
	return s.v.GetString(name)
}

func (s *FileStore) Set(name, value string) {
	s.v.Set(name, value)
}

// Path returns the plan file location.
func (s *FileStore) Path() string {
	return s.path
}

// Keys returns every property name in the file, lowercased.
func (s *FileStore) Keys() []string {
	return s.v.AllKeys()
}

// Save writes all properties back to the plan file, creating parent directories.
func (s *FileStore) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", s.path)
		}
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return errors.Wrapf(err, "writing test plan %s", s.path)
	}
	return nil
}

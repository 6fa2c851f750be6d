package persist

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"nnlab/network"
)

// Extension is appended to every network name.
const Extension = ".network"

// Store resolves network names to files below a directory. Saves and loads
// through one Store are serialised.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore returns a Store rooted at dir; an empty dir means the working
// directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore resolves names relative to the working directory.
var DefaultStore = NewStore("")

// Save writes net to the file for name using DefaultStore.
func Save(net *network.Network, name string) error {
	return DefaultStore.Save(net, name)
}

// Load reads the network saved under name using DefaultStore.
func Load(name string) (*network.Network, error) {
	return DefaultStore.Load(name)
}

// Path returns the file a name resolves to. Names may contain slashes.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name)+Extension)
}

// Save writes net under name, creating missing directories. The file is
// written to a temporary sibling and renamed into place.
func (s *Store) Save(net *network.Network, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(net, s.Path(name)); err != nil {
		return &Error{Op: "save", Name: name, Err: err}
	}
	return nil
}

func (s *Store) save(net *network.Network, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	w := bufio.NewWriter(f)
	if err := Encode(w, net); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "flushing")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing temporary file")
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming to %s", path)
	}
	return nil
}

// Load reads the network saved under name.
func (s *Store) Load(name string) (*network.Network, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	net, err := s.load(s.Path(name))
	if err != nil {
		return nil, &Error{Op: "load", Name: name, Err: err}
	}
	return net, nil
}

func (s *Store) load(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening")
	}
	defer f.Close()

	return Decode(bufio.NewReader(f))
}

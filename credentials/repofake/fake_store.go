package fakecredentialstore

import (
	"sync"

	"github.com/jrsteele09/go-admin-client/credentials"
	"github.com/pkg/errors"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store for tests. It enforces the
// both-or-none invariant on every write and counts operations so tests can
// assert on side effects.
type FakeStore struct {
	lock sync.Mutex
	pair credentials.Pair
	set  bool

	LoadCalls  int
	SaveCalls  int
	ClearCalls int

	LoadErr  error // returned by Load when non-nil
	SaveErr  error // returned by Save when non-nil
	ClearErr error // returned by Clear when non-nil
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Seed places a pair in the store without counting as a Save call.
func (fs *FakeStore) Seed(pair credentials.Pair) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.pair = pair
	fs.set = true
}

func (fs *FakeStore) Load() (credentials.Pair, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.LoadCalls++
	if fs.LoadErr != nil {
		return credentials.Pair{}, fs.LoadErr
	}
	if !fs.set {
		return credentials.Pair{}, nil
	}
	return fs.pair, nil
}

func (fs *FakeStore) Save(pair credentials.Pair) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.SaveCalls++
	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	if !pair.Complete() {
		return errors.New("partial credential pair")
	}
	fs.pair = pair
	fs.set = true
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.ClearCalls++
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.pair = credentials.Pair{}
	fs.set = false
	return nil
}

// Stored returns the current pair and whether one is set.
func (fs *FakeStore) Stored() (credentials.Pair, bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.pair, fs.set
}

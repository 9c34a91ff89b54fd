package digits

import (
	"fmt"

	"github.com/arloliu/piencode/errs"
)

// Snapshot is the persisted form of a Store: the full digit string and its
// declared length. Length must equal len(Digits).
type Snapshot struct {
	Length int    `json:"length"`
	Digits string `json:"digits"`
}

// Validate checks the snapshot invariants.
func (snap Snapshot) Validate() error {
	if snap.Length != len(snap.Digits) {
		return fmt.Errorf("%w: declared length %d, have %d digits", errs.ErrCacheCorrupt, snap.Length, len(snap.Digits))
	}
	if err := checkDigits(snap.Digits); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrCacheCorrupt, err)
	}

	return nil
}

// Snapshot captures the current digits.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{Length: s.digits.Len(), Digits: s.digits.String()}
}

// LoadSnapshot replaces the store contents with snap. An invalid snapshot is
// rejected with errs.ErrCacheCorrupt and leaves the store unchanged.
func (s *Store) LoadSnapshot(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.digits.Reset()
	s.digits.Grow(len(snap.Digits))
	s.digits.WriteString(snap.Digits)

	return nil
}

// NewStoreFromSnapshot creates a store holding snap's digits.
func NewStoreFromSnapshot(snap Snapshot, opts ...StoreOption) (*Store, error) {
	s, err := NewStore(opts...)
	if err != nil {
		return nil, err
	}
	if err := s.LoadSnapshot(snap); err != nil {
		return nil, err
	}

	return s, nil
}

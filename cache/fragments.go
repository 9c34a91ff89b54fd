package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/arloliu/piencode/errs"
)

// DefaultFragmentPath is the default fragment memo file name.
const DefaultFragmentPath = "pi.frags"

const fragmentsVersion = 1

type fragmentFile struct {
	Version uint8          `cbor:"1,keyasint"`
	Entries map[string]int `cbor:"2,keyasint"`
}

// SaveFragments writes a fragment→offset memo to path as CBOR.
func SaveFragments(path string, entries map[string]int) error {
	data, err := encMode.Marshal(fragmentFile{Version: fragmentsVersion, Entries: entries})
	if err != nil {
		return fmt.Errorf("encoding fragment cache: %w", err)
	}

	return writeFileAtomic(path, data)
}

// LoadFragments reads a memo written by SaveFragments. A missing file yields
// an empty memo; an unreadable one fails with errs.ErrCacheCorrupt. Offsets
// are not checked against any digits here, see locate.Locator.Preload.
func LoadFragments(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading fragment cache: %w", err)
	}

	var wire fragmentFile
	if err := decMode.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: fragment cache %s: %w", errs.ErrCacheCorrupt, path, err)
	}
	if wire.Version != fragmentsVersion {
		return nil, fmt.Errorf("%w: fragment cache %s: unsupported version %d", errs.ErrCacheCorrupt, path, wire.Version)
	}
	if wire.Entries == nil {
		wire.Entries = map[string]int{}
	}

	return wire.Entries, nil
}

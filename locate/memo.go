package locate

// Memo returns the located fragments and their offsets. Negative results are
// omitted: they depend on how much of π was cached and are cheap to redo.
func (l *Locator) Memo() map[string]int {
	out := make(map[string]int, len(l.memo))
	for key, loc := range l.memo {
		if loc.Found {
			out[key] = loc.Offset
		}
	}

	return out
}

// Preload seeds the memo with previously located fragments. An entry is kept
// only if the store currently holds key at that offset; the rest are
// returned so the caller can report them.
func (l *Locator) Preload(entries map[string]int) (dropped []string) {
	for key, off := range entries {
		if key == "" {
			continue
		}
		got, err := l.store.Slice(off, len(key))
		if err != nil || got != key {
			dropped = append(dropped, key)
			continue
		}
		l.memo[key] = Location{Offset: off, Found: true, Searched: off + len(key)}
	}

	return dropped
}

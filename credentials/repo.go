package credentials

// Store persists the credential pair across process restarts.
//
// Load returns a zero Pair when no credentials are stored. Implementations
// must never return a partial pair: finding one token without the other is
// an invariant violation that Load resolves by clearing the store and
// reporting logged-out. Clear is idempotent and safe to call concurrently.
type Store interface {
	Load() (Pair, error)
	Save(pair Pair) error
	Clear() error
}

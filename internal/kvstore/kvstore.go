// Package kvstore abstracts the durable local side channel the SDK uses
// for credentials, the day-boundary marker, the water shadow counter and
// cached profile data. The contract mirrors web localStorage: synchronous
// string keys and values, no expiry.
package kvstore

import "fmt"

// Store is a synchronous key-value side channel.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)
}

// UserKey namespaces key by user so two accounts on the same device never
// read each other's state.
func UserKey(userID, key string) string {
	return fmt.Sprintf("%s.u%s", key, userID)
}

// Namespaced wraps base so every key is scoped to userID. An empty
// userID returns base unchanged.
func Namespaced(base Store, userID string) Store {
	if userID == "" {
		return base
	}
	return &namespaced{base: base, userID: userID}
}

type namespaced struct {
	base   Store
	userID string
}

func (n *namespaced) Get(key string) (string, bool) { return n.base.Get(UserKey(n.userID, key)) }
func (n *namespaced) Set(key, value string)         { n.base.Set(UserKey(n.userID, key), value) }
func (n *namespaced) Delete(key string)             { n.base.Delete(UserKey(n.userID, key)) }

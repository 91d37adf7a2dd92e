// Package store provides the cache and pub/sub abstraction shared by the
// services: an in-memory implementation for single-node deployments and a
// Redis implementation for clustered ones.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: key not found")

// Message is a single pub/sub payload.
type Message struct {
	Channel string
	Payload []byte
}

// Subscription is a live pub/sub subscription.
type Subscription interface {
	// Channel returns the channel messages are delivered on.
	Channel() <-chan *Message
	// Close terminates the subscription.
	Close() error
}

// Store is the key-value + pub/sub interface.
type Store interface {
	// Set stores a key-value pair with an optional TTL (0 means no expiry).
	Set(key string, value []byte, ttl time.Duration) error
	// Get retrieves a value, returning ErrNotFound for missing keys.
	Get(key string) ([]byte, error)
	// Delete removes a key.
	Delete(key string) error
	// Del removes multiple keys.
	Del(keys ...string) error
	// Exists checks whether a key exists.
	Exists(key string) (bool, error)
	// SetNX sets a key only if it does not exist, reporting whether it was set.
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)

	// Publish sends a message to all subscribers of a channel.
	Publish(channel string, message []byte) error
	// Subscribe listens for messages on a channel.
	Subscribe(channel string) (Subscription, error)

	// Clear removes all data.
	Clear() error
	// Close releases resources.
	Close() error
}

package kv

import "errors"

// ErrKeyNotFound is returned by Backend.Read when no value exists for a key.
var ErrKeyNotFound = errors.New("kv: key not found")

// Backend is raw string-keyed byte storage. Implementations must return
// ErrKeyNotFound from Read for absent keys so the Codec layer can
// distinguish absence from failure.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Delete(key string) error
	Close() error
}

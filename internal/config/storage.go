package config

import (
	"errors"
	"fmt"
	"net/url"
)

type StorageKind string

const (
	StorageMemory    StorageKind = "memory"
	StorageLevelDB   StorageKind = "leveldb"
	StorageTarantool StorageKind = "tarantool"
)

var ErrStorage = errors.New("unsupported storage")

// Storage is a parsed storage uri. Path is empty for an in-memory leveldb.
type Storage struct {
	Kind    StorageKind
	Path    string
	Address string
}

func ParseStorage(uri string) (Storage, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Storage{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	switch u.Scheme {
	case "memory":
		return Storage{Kind: StorageMemory}, nil
	case "leveldb":
		if u.Host != "memory" {
			return Storage{}, fmt.Errorf("%w: %s, use leveldb://memory or file:///path", ErrStorage, uri)
		}
		return Storage{Kind: StorageLevelDB}, nil
	case "file":
		if len(u.Path) < 1 {
			return Storage{}, fmt.Errorf("%w: %s has no path", ErrStorage, uri)
		}
		return Storage{Kind: StorageLevelDB, Path: u.Path}, nil
	case "tarantool":
		if len(u.Host) < 1 {
			return Storage{}, fmt.Errorf("%w: %s has no address", ErrStorage, uri)
		}
		return Storage{Kind: StorageTarantool, Address: u.Host}, nil
	}
	return Storage{}, fmt.Errorf("%w: %s", ErrStorage, uri)
}

// Copyright 2026 The ruleengine Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package boltloader is a reference loader.Loader backed by a bolt
// key-value file, simulating "not loaded on first pass, present after the
// host backfills the cache" (spec §8 scenario S6) without the engine
// itself depending on bolt.
package boltloader

import (
	"fmt"

	bolt "github.com/boltdb/bolt"
	"github.com/mitchellh/hashstructure"
	msgpack "gopkg.in/vmihailenco/msgpack.v2"

	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/resultalgebra"
)

var bucketName = []byte("associations")

// Loader stores resolved association values in a single bolt bucket, keyed
// by a hashstructure digest of the (container, key) pair Lookup is asked
// for.
type Loader struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bolt file at path.
func Open(path string) (*Loader, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Loader{db: db}, nil
}

// Close releases the underlying bolt file.
func (l *Loader) Close() error { return l.db.Close() }

// Put stores value as the resolved association for (container, key),
// simulating a host backfilling its cache after handling a NotLoaded
// request the engine emitted.
func (l *Loader) Put(container any, key string, value any) error {
	digest, err := bucketKey(container, key)
	if err != nil {
		return err
	}
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("boltloader: encoding %s: %w", key, err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(digest, encoded)
	})
}

// Lookup implements loader.Loader: a (container, key) pair not yet Put
// returns NotLoaded with a single request the host is expected to resolve
// (spec §6); once Put, subsequent Lookups return Ok from the bucket.
func (l *Loader) Lookup(cache any, kind loader.Kind, container any, key string) resultalgebra.Result[any] {
	digest, err := bucketKey(container, key)
	if err != nil {
		return resultalgebra.Err[any](err)
	}

	var raw []byte
	if err := l.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(digest); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return resultalgebra.Err[any](err)
	}

	if raw == nil {
		return resultalgebra.NotLoaded[any]([]resultalgebra.Request{
			resultalgebra.NewRequest(string(kind), container, key),
		})
	}

	// Decoding into a bare any yields msgpack's generic representation
	// (map[interface{}]interface{} for encoded maps); callers that Put a
	// map[string]any value back should re-type it after Lookup if that
	// distinction matters to them.
	var value any
	if err := msgpack.Unmarshal(raw, &value); err != nil {
		return resultalgebra.Err[any](fmt.Errorf("boltloader: decoding %s: %w", key, err))
	}
	return resultalgebra.Ok(value)
}

func bucketKey(container any, key string) ([]byte, error) {
	h, err := hashstructure.Hash(struct {
		Container any
		Key       string
	}{container, key}, nil)
	if err != nil {
		return nil, fmt.Errorf("boltloader: hashing bucket key for %s: %w", key, err)
	}
	return []byte(fmt.Sprintf("%x", h)), nil
}

package kvdb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var (
	ErrorsKeyNotExists    = errors.New("key not exists")
	ErrorsBucketNotExists = errors.New("bucket not exists")
)

const (
	BBOLTDB_COUNTRY_BUCKET = "countries"
)

// KVDB stores the country translation table in bbolt: key is the lowercase country code,
// value is the msgpack encoded {lang: name} map.
type KVDB struct {
	db *bbolt.DB
	sync.Mutex
}

func NewKVDB(db *bbolt.DB) (*KVDB, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BBOLTDB_COUNTRY_BUCKET))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error when creating bucket %s: %w", BBOLTDB_COUNTRY_BUCKET, err)
	}
	return &KVDB{db,
		sync.Mutex{}}, nil
}

// NewReadOnlyKVDB wraps a database opened with bbolt.Options.ReadOnly. the country bucket must exist.
func NewReadOnlyKVDB(db *bbolt.DB) (*KVDB, error) {
	err := db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(BBOLTDB_COUNTRY_BUCKET)) == nil {
			return ErrorsBucketNotExists
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error when opening bucket %s: %w", BBOLTDB_COUNTRY_BUCKET, err)
	}
	return &KVDB{db,
		sync.Mutex{}}, nil
}

// SaveCountries writes all countries in one batch transaction.
func (db *KVDB) SaveCountries(countries map[string]map[string]string) error {
	db.Lock()
	defer db.Unlock()
	return db.db.Batch(func(tx *bbolt.Tx) error {
		for code, names := range countries {
			err := db.Set(code, names, tx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *KVDB) Set(code string, names map[string]string, tx *bbolt.Tx) error {
	namesBytes, err := msgpack.Marshal(names)
	if err != nil {
		return fmt.Errorf("error when encoding country %s: %w", code, err)
	}
	b := tx.Bucket([]byte(BBOLTDB_COUNTRY_BUCKET))
	return b.Put([]byte(strings.ToLower(code)), namesBytes)
}

func (db *KVDB) GetCountry(code string) (names map[string]string, err error) {
	viewErr := db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BBOLTDB_COUNTRY_BUCKET))
		namesBytes := b.Get([]byte(strings.ToLower(code)))
		if namesBytes == nil {
			err = ErrorsKeyNotExists
			return nil
		}
		// namesBytes is only valid inside the transaction, Unmarshal copies it.
		err = msgpack.Unmarshal(namesBytes, &names)
		return nil
	})
	if viewErr != nil {
		return nil, viewErr
	}
	return
}

// Translations implements enrich.CountryTable.
func (db *KVDB) Translations(code string) (map[string]string, bool) {
	names, err := db.GetCountry(code)
	if err != nil {
		return nil, false
	}
	return names, true
}

// Codes implements enrich.CountryTable.
func (db *KVDB) Codes() []string {
	codes := []string{}
	_ = db.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BBOLTDB_COUNTRY_BUCKET)).ForEach(func(k, _ []byte) error {
			codes = append(codes, string(k))
			return nil
		})
	})
	sort.Strings(codes)
	return codes
}

// Count returns the number of stored countries.
func (db *KVDB) Count() int {
	n := 0
	_ = db.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(BBOLTDB_COUNTRY_BUCKET)).Stats().KeyN
		return nil
	})
	return n
}

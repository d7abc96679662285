package persist

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

var cookiesBucket = []byte("cookies")

// Bolt keeps the store in a bbolt database. Each cookie is a JSON value
// under a domain/path/name key.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens or creates the database at path.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cookiesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func boltKey(c *cookiestore.Cookie) []byte {
	var b bytes.Buffer
	b.WriteString(c.Domain)
	b.WriteByte(0)
	b.WriteString(c.Path)
	b.WriteByte(0)
	b.WriteString(c.Name)
	return b.Bytes()
}

func (b *Bolt) Load(st *cookiestore.Store) error {
	var cookies []*cookiestore.Cookie
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(cookiesBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			c, err := cookiestore.DecodeJSON(string(v))
			if err != nil {
				return fmt.Errorf("decode cookie %q: %w", bytes.ReplaceAll(k, []byte{0}, []byte{'/'}), err)
			}
			cookies = append(cookies, c)
			return nil
		})
	})
	if err != nil {
		return err
	}
	st.Restore(cookies)
	return nil
}

func (b *Bolt) Save(st *cookiestore.Store) error {
	cookies := st.Persistent()
	return b.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(cookiesBucket) != nil {
			if err := tx.DeleteBucket(cookiesBucket); err != nil {
				return err
			}
		}
		bucket, err := tx.CreateBucket(cookiesBucket)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			v, err := cookiestore.EncodeJSON(c)
			if err != nil {
				return fmt.Errorf("encode cookie %q: %w", c.Name, err)
			}
			if err := bucket.Put(boltKey(c), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

// Package bolt implements a persistent host platform on top of bbolt.
// Values are stored as JSON per scope bucket, which keeps the file portable
// and inspectable.
package bolt

import (
	"fmt"

	bbolt "go.etcd.io/bbolt"

	"github.com/goliatone/go-settings/internal/codec"
)

const (
	bucketSite     = "site"
	bucketAutoload = "site_autoload"
	bucketNetwork  = "network"
	bucketBlogs    = "blogs"
	bucketUserMeta = "user_meta"
	bucketUserOpts = "user_options"
	bucketPostMeta = "post_meta"
)

// Platform persists host options in one bbolt file. It satisfies
// host.Platform; capability checks stay with the caller.
type Platform struct {
	db          *bbolt.DB
	currentBlog int64
}

// Open opens (creating if needed) the bbolt file at path. currentBlogID
// defaults to 1 when non-positive.
func Open(path string, currentBlogID int64) (*Platform, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt: open %q: %w", path, err)
	}
	if currentBlogID <= 0 {
		currentBlogID = 1
	}
	return &Platform{db: db, currentBlog: currentBlogID}, nil
}

// Close releases the underlying database file.
func (p *Platform) Close() error {
	return p.db.Close()
}

func (p *Platform) get(bucket, key string) (any, bool) {
	var payload []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		if raw := b.Get([]byte(key)); raw != nil {
			payload = append([]byte{}, raw...)
		}
		return nil
	})
	if err != nil || payload == nil {
		return nil, false
	}
	value, err := codec.Decode(payload)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (p *Platform) put(bucket, key string, value any) bool {
	payload, err := codec.Encode(value)
	if err != nil {
		return false
	}
	err = p.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), payload)
	})
	return err == nil
}

// putIfAbsent creates key only when no value exists yet.
func (p *Platform) putIfAbsent(bucket, key string, value any) bool {
	payload, err := codec.Encode(value)
	if err != nil {
		return false
	}
	created := false
	err = p.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		if b.Get([]byte(key)) != nil {
			return nil
		}
		created = true
		return b.Put([]byte(key), payload)
	})
	return err == nil && created
}

func (p *Platform) del(bucket, key string) bool {
	existed := false
	err := p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		if b.Get([]byte(key)) == nil {
			return nil
		}
		existed = true
		return b.Delete([]byte(key))
	})
	return err == nil && existed
}

func (p *Platform) GetOption(key string) (any, bool) {
	return p.get(bucketSite, key)
}

// UpdateOption writes the value and its autoload flag in one transaction so a
// failure can never leave the flag inconsistent with the value.
func (p *Platform) UpdateOption(key string, value any, autoload bool) bool {
	payload, err := codec.Encode(value)
	if err != nil {
		return false
	}
	flag, err := codec.Encode(autoload)
	if err != nil {
		return false
	}
	err = p.db.Update(func(tx *bbolt.Tx) error {
		site, err := tx.CreateBucketIfNotExists([]byte(bucketSite))
		if err != nil {
			return err
		}
		flags, err := tx.CreateBucketIfNotExists([]byte(bucketAutoload))
		if err != nil {
			return err
		}
		if err := site.Put([]byte(key), payload); err != nil {
			return err
		}
		return flags.Put([]byte(key), flag)
	})
	return err == nil
}

func (p *Platform) AddOption(key string, value any, autoload *bool) bool {
	enabled := true
	if autoload != nil {
		enabled = *autoload
	}
	payload, err := codec.Encode(value)
	if err != nil {
		return false
	}
	flag, err := codec.Encode(enabled)
	if err != nil {
		return false
	}
	created := false
	err = p.db.Update(func(tx *bbolt.Tx) error {
		site, err := tx.CreateBucketIfNotExists([]byte(bucketSite))
		if err != nil {
			return err
		}
		if site.Get([]byte(key)) != nil {
			return nil
		}
		flags, err := tx.CreateBucketIfNotExists([]byte(bucketAutoload))
		if err != nil {
			return err
		}
		if err := site.Put([]byte(key), payload); err != nil {
			return err
		}
		if err := flags.Put([]byte(key), flag); err != nil {
			return err
		}
		created = true
		return nil
	})
	return err == nil && created
}

func (p *Platform) DeleteOption(key string) bool {
	existed := false
	err := p.db.Update(func(tx *bbolt.Tx) error {
		site := tx.Bucket([]byte(bucketSite))
		if site == nil || site.Get([]byte(key)) == nil {
			return nil
		}
		if err := site.Delete([]byte(key)); err != nil {
			return err
		}
		if flags := tx.Bucket([]byte(bucketAutoload)); flags != nil {
			if err := flags.Delete([]byte(key)); err != nil {
				return err
			}
		}
		existed = true
		return nil
	})
	return err == nil && existed
}

func (p *Platform) LoadAllAutoloaded() map[string]any {
	out := map[string]any{}
	err := p.db.View(func(tx *bbolt.Tx) error {
		site := tx.Bucket([]byte(bucketSite))
		flags := tx.Bucket([]byte(bucketAutoload))
		if site == nil || flags == nil {
			return nil
		}
		return flags.ForEach(func(key, raw []byte) error {
			flag, err := codec.Decode(raw)
			if err != nil {
				return nil
			}
			if enabled, ok := flag.(bool); !ok || !enabled {
				return nil
			}
			payload := site.Get(key)
			if payload == nil {
				return nil
			}
			value, err := codec.Decode(payload)
			if err != nil {
				return nil
			}
			out[string(key)] = value
			return nil
		})
	})
	if err != nil {
		return map[string]any{}
	}
	return out
}

func (p *Platform) GetNetworkOption(key string) (any, bool) {
	return p.get(bucketNetwork, key)
}

func (p *Platform) UpdateNetworkOption(key string, value any) bool {
	return p.put(bucketNetwork, key, value)
}

func (p *Platform) AddNetworkOption(key string, value any) bool {
	return p.putIfAbsent(bucketNetwork, key, value)
}

func (p *Platform) DeleteNetworkOption(key string) bool {
	return p.del(bucketNetwork, key)
}

func (p *Platform) CurrentBlogID() int64 {
	return p.currentBlog
}

func (p *Platform) GetBlogOption(blogID int64, key string) (any, bool) {
	return p.get(bucketBlogs, blogKey(blogID, key))
}

func (p *Platform) UpdateBlogOption(blogID int64, key string, value any) bool {
	return p.put(bucketBlogs, blogKey(blogID, key), value)
}

func (p *Platform) AddBlogOption(blogID int64, key string, value any) bool {
	return p.putIfAbsent(bucketBlogs, blogKey(blogID, key), value)
}

func (p *Platform) DeleteBlogOption(blogID int64, key string) bool {
	return p.del(bucketBlogs, blogKey(blogID, key))
}

func (p *Platform) GetUserMeta(userID int64, key string) (any, bool) {
	return p.get(bucketUserMeta, userKey(userID, key))
}

func (p *Platform) UpdateUserMeta(userID int64, key string, value any) bool {
	return p.put(bucketUserMeta, userKey(userID, key), value)
}

func (p *Platform) DeleteUserMeta(userID int64, key string) bool {
	return p.del(bucketUserMeta, userKey(userID, key))
}

func (p *Platform) GetUserOption(userID int64, key string, global bool) (any, bool) {
	return p.get(bucketUserOpts, p.userOptionKey(userID, key, global))
}

func (p *Platform) UpdateUserOption(userID int64, key string, value any, global bool) bool {
	return p.put(bucketUserOpts, p.userOptionKey(userID, key, global), value)
}

func (p *Platform) DeleteUserOption(userID int64, key string, global bool) bool {
	return p.del(bucketUserOpts, p.userOptionKey(userID, key, global))
}

func (p *Platform) GetPostMeta(postID int64, key string) (any, bool) {
	return p.get(bucketPostMeta, postKey(postID, key))
}

func (p *Platform) UpdatePostMeta(postID int64, key string, value any) bool {
	return p.put(bucketPostMeta, postKey(postID, key), value)
}

func (p *Platform) DeletePostMeta(postID int64, key string) bool {
	return p.del(bucketPostMeta, postKey(postID, key))
}

func (p *Platform) userOptionKey(userID int64, key string, global bool) string {
	if global {
		return fmt.Sprintf("%d/%s", userID, key)
	}
	return fmt.Sprintf("%d/blog/%d/%s", userID, p.currentBlog, key)
}

func blogKey(blogID int64, key string) string {
	return fmt.Sprintf("%d/%s", blogID, key)
}

func userKey(userID int64, key string) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

func postKey(postID int64, key string) string {
	return fmt.Sprintf("%d/%s", postID, key)
}

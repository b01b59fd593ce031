package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/lectern/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// DefaultExpiry is how long a fetched lecture stays valid
const DefaultExpiry = 24 * time.Hour

// Bucket names
var (
	bucketLectures = []byte("lectures")
	bucketLists    = []byte("lists")
	bucketSession  = []byte("session")

	allBuckets = [][]byte{bucketLectures, bucketLists, bucketSession}
)

const keyLastRoute = "last_route"

// contentEntry is the persisted form of a cached lecture
type contentEntry struct {
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// listEntry is the persisted form of a cached lecture list
type listEntry struct {
	Data      []domain.LectureMetadata `json:"data"`
	Timestamp int64                    `json:"timestamp"` // unix milliseconds
}

// Option configures a LectureStore
type Option func(*LectureStore)

// WithExpiry overrides the expiry window. Non-positive values keep the default.
func WithExpiry(d time.Duration) Option {
	return func(s *LectureStore) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithClock replaces time.Now, for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(s *LectureStore) {
		if now != nil {
			s.now = now
		}
	}
}

// LectureStore implements domain.LectureStore using BoltDB.
type LectureStore struct {
	db     *bolt.DB
	mu     sync.RWMutex // Protects memory cache
	expiry time.Duration
	now    func() time.Time

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewLectureStore opens the cache under baseCacheDir, partitioned by content source so
// switching between hosts never serves another host's lectures.
// An empty baseCacheDir gives a memory-only store.
func NewLectureStore(baseCacheDir, sourceKey string, opts ...Option) (*LectureStore, error) {
	s := &LectureStore{
		cache:  make(map[string][]byte),
		expiry: DefaultExpiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if baseCacheDir == "" {
		return s, nil
	}

	dir := baseCacheDir
	if sourceKey != "" {
		dir = filepath.Join(baseCacheDir, hashSourceKey(sourceKey))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "lectern.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashSourceKey(key string) string {
	normalized := strings.TrimRight(strings.ToLower(key), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *LectureStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Expiry returns the configured expiry window
func (s *LectureStore) Expiry() time.Duration {
	return s.expiry
}

// LectureKey builds the composite cache key
func LectureKey(courseID, lectureID string) string {
	if courseID == "" {
		return lectureID
	}
	return courseID + ":" + lectureID
}

// fresh reports whether a timestamp is still inside the expiry window
func (s *LectureStore) fresh(timestamp int64) bool {
	age := s.now().Sub(time.UnixMilli(timestamp))
	return age < s.expiry
}

// === Generic helpers ===

func (s *LectureStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *LectureStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *LectureStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// deleteExpired drops an entry only while the stored copy is still expired. A reader that
// saw an expired entry must not remove one saved after its read.
func (s *LectureStore) deleteExpired(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	if data, ok := s.cache[cacheKey]; ok && s.expired(data) {
		delete(s.cache, cacheKey)
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil && s.expired(v) {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

// expired reports whether a serialized entry is outside the expiry window.
// Unreadable entries count as expired.
func (s *LectureStore) expired(data []byte) bool {
	var stamp struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &stamp); err != nil {
		return true
	}
	return !s.fresh(stamp.Timestamp)
}

func (s *LectureStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first: deleting under a live cursor skips keys
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Lecture content ===

// GetLecture returns cached content while it is inside the expiry window.
// Expired entries are dropped and reported as a miss.
func (s *LectureStore) GetLecture(courseID, lectureID string) (string, bool) {
	key := LectureKey(courseID, lectureID)
	var entry contentEntry
	if !s.get(bucketLectures, key, &entry) {
		return "", false
	}
	if !s.fresh(entry.Timestamp) {
		s.deleteExpired(bucketLectures, key)
		return "", false
	}
	return entry.Content, true
}

// SaveLecture stores content stamped with the current time, replacing any older entry
func (s *LectureStore) SaveLecture(courseID, lectureID, content string) error {
	return s.set(bucketLectures, LectureKey(courseID, lectureID), contentEntry{
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	})
}

// === Lecture lists ===

func (s *LectureStore) GetLectureList(courseID string) ([]domain.LectureMetadata, bool) {
	var entry listEntry
	if !s.get(bucketLists, courseID, &entry) {
		return nil, false
	}
	if !s.fresh(entry.Timestamp) {
		s.deleteExpired(bucketLists, courseID)
		return nil, false
	}
	return entry.Data, true
}

func (s *LectureStore) SaveLectureList(courseID string, lectures []domain.LectureMetadata) error {
	return s.set(bucketLists, courseID, listEntry{
		Data:      lectures,
		Timestamp: s.now().UnixMilli(),
	})
}

// === Session ===

func (s *LectureStore) GetLastRoute() (string, bool) {
	var route string
	ok := s.get(bucketSession, keyLastRoute, &route)
	return route, ok && route != ""
}

func (s *LectureStore) SaveLastRoute(route string) error {
	return s.set(bucketSession, keyLastRoute, route)
}

// === Invalidation ===

func (s *LectureStore) InvalidateLecture(courseID, lectureID string) {
	s.delete(bucketLectures, LectureKey(courseID, lectureID))
}

// InvalidateCourse wipes every lecture of a course plus its cached list
func (s *LectureStore) InvalidateCourse(courseID string) {
	if courseID == "" {
		// Single-course keys have no prefix to scope by
		s.clearBucket(bucketLectures)
	} else {
		s.deletePrefix(bucketLectures, courseID+":")
	}
	s.delete(bucketLists, courseID)
}

// InvalidateAll wipes cached content and lists. The session record survives.
func (s *LectureStore) InvalidateAll() {
	s.clearBucket(bucketLectures)
	s.clearBucket(bucketLists)
}

func (s *LectureStore) clearBucket(bucket []byte) {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucket) != nil {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
}

var _ domain.LectureStore = (*LectureStore)(nil)

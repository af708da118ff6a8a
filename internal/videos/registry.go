package videos

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Media is the content behind a playable reference.
type Media struct {
	BlobID      string
	ContentType string
	Data        []byte
}

// MediaRegistry hands out process-local playable references for blob content.
// References are random per process, so a reference persisted or produced by
// another process never resolves here. Evicted or expired references stop
// resolving as well.
type MediaRegistry struct {
	base string
	lru  *expirable.LRU[string, Media]

	// mu serialises Register and Revoke.
	mu sync.Mutex

	// tokensMu guards tokens. It is taken inside LRU eviction callbacks, so
	// it must never be held while calling into lru.
	tokensMu sync.Mutex
	tokens   map[string]string
}

// NewMediaRegistry returns a registry whose references look like "<base>/<token>".
func NewMediaRegistry(base string, size int, ttl time.Duration) *MediaRegistry {
	if size <= 0 {
		size = 64
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &MediaRegistry{
		base:   strings.TrimRight(base, "/"),
		tokens: make(map[string]string),
	}
	r.lru = expirable.NewLRU[string, Media](size, r.forget, ttl)
	return r
}

// Register makes data playable and returns its reference. Registering identical
// content for the same blob again returns the existing reference.
func (r *MediaRegistry) Register(blobID string, data []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.token(blobID); ok {
		if existing, ok := r.lru.Get(token); ok && bytes.Equal(existing.Data, data) {
			return r.ref(token)
		}
		r.lru.Remove(token)
	}

	token := uuid.NewString()
	r.lru.Add(token, Media{
		BlobID:      blobID,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	})
	r.tokensMu.Lock()
	r.tokens[blobID] = token
	r.tokensMu.Unlock()
	return r.ref(token)
}

// Open resolves a reference produced by Register. Both the full reference and
// the bare token are accepted.
func (r *MediaRegistry) Open(ref string) (Media, error) {
	token := strings.TrimPrefix(ref, r.base+"/")
	if token == "" || strings.Contains(token, "/") {
		return Media{}, ErrMediaUnavailable
	}
	media, ok := r.lru.Get(token)
	if !ok {
		return Media{}, ErrMediaUnavailable
	}
	return media, nil
}

// Revoke drops any reference issued for blobID.
func (r *MediaRegistry) Revoke(blobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.token(blobID); ok {
		r.lru.Remove(token)
		r.forget(token, Media{BlobID: blobID})
	}
}

// Len reports the number of live references.
func (r *MediaRegistry) Len() int {
	return r.lru.Len()
}

// tracked reports how many blobs still map to a reference.
func (r *MediaRegistry) tracked() int {
	r.tokensMu.Lock()
	defer r.tokensMu.Unlock()
	return len(r.tokens)
}

func (r *MediaRegistry) token(blobID string) (string, bool) {
	r.tokensMu.Lock()
	defer r.tokensMu.Unlock()
	token, ok := r.tokens[blobID]
	return token, ok
}

// forget drops the blob's index entry when it still points at token. It runs
// as the LRU eviction callback for evicted and expired references.
func (r *MediaRegistry) forget(token string, media Media) {
	r.tokensMu.Lock()
	defer r.tokensMu.Unlock()
	if r.tokens[media.BlobID] == token {
		delete(r.tokens, media.BlobID)
	}
}

func (r *MediaRegistry) ref(token string) string {
	return r.base + "/" + token
}

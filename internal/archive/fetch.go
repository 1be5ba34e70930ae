package archive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	twlerrors "github.com/unfoldingword/twl/core/errors"
	"github.com/unfoldingword/twl/internal/cache"
	"github.com/unfoldingword/twl/internal/casblob"
	"github.com/unfoldingword/twl/internal/logging"
)

// contentEnvelope is the shape returned by the reference-translation
// endpoint: an object whose content field holds the base64-encoded body.
type contentEnvelope struct {
	Content string `json:"content"`
}

// Fetcher retrieves the vocabulary archive and reference-translation USFM
// over HTTP. Both go through an in-process TTL cache for the lifetime of
// one driver invocation; the vocabulary archive is also kept in a disk
// cache that survives across invocations, USFM is not. A disk entry's
// version key is a name-based UUID of the URL alone, so a stored entry
// for the same URL always matches; the server is not asked for a current
// version.
type Fetcher struct {
	Client     *http.Client
	Blobs      *casblob.Store
	VersionTTL time.Duration

	mem *cache.TTLCache[string, []byte]
}

// NewFetcher builds a Fetcher backed by the given blob store. If client is
// nil, http.DefaultClient is used.
func NewFetcher(client *http.Client, blobs *casblob.Store) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		Client:     client,
		Blobs:      blobs,
		VersionTTL: 10 * time.Minute,
		mem:        cache.New[string, []byte](10 * time.Minute),
	}
}

// FetchArchive downloads the vocabulary archive (a tar.gz/tar.xz tree
// rooted at bible/<category>/<slug>.md) from url, honoring the cache.
func (f *Fetcher) FetchArchive(ctx context.Context, url string) ([]byte, error) {
	return f.fetchRaw(ctx, url, "vocab-archive:"+url)
}

// FetchUSFM downloads the reference translation's USFM for one book from
// url. The endpoint wraps the USFM body in a base64 "content" envelope
// (§6, "Reference translation").
func (f *Fetcher) FetchUSFM(ctx context.Context, url string) ([]byte, error) {
	cacheKey := "usfm:" + url
	if data, ok := f.mem.Get(cacheKey); ok {
		logging.ArchiveCacheHit(cacheKey)
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, twlerrors.Wrap(err, "build request")
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, twlerrors.NewIO("fetch", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, twlerrors.NewIO("fetch", url, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, twlerrors.NewIO("read", url, err)
	}

	var env contentEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, twlerrors.NewParse("reference-translation-envelope", url, err.Error())
	}

	data, err := base64.StdEncoding.DecodeString(env.Content)
	if err != nil {
		return nil, twlerrors.NewParse("reference-translation-envelope", url, "invalid base64 content")
	}

	f.mem.Set(cacheKey, data)
	logging.ArchiveFetch(url, len(data))
	return data, nil
}

// fetchRaw performs a plain byte fetch with disk-cache fallback, used for
// the vocabulary archive (not base64-wrapped).
func (f *Fetcher) fetchRaw(ctx context.Context, url, cacheKey string) ([]byte, error) {
	if data, ok := f.mem.Get(cacheKey); ok {
		logging.ArchiveCacheHit(cacheKey)
		return data, nil
	}

	versionKey := uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
	if f.Blobs != nil {
		if data, ok := f.Blobs.GetVersioned(cacheKey, versionKey); ok {
			f.mem.Set(cacheKey, data)
			logging.ArchiveCacheHit(cacheKey)
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, twlerrors.Wrap(err, "build request")
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, twlerrors.NewIO("fetch", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, twlerrors.NewIO("fetch", url, fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, twlerrors.NewIO("read", url, err)
	}

	f.mem.Set(cacheKey, data)
	if f.Blobs != nil {
		if err := f.Blobs.PutVersioned(cacheKey, versionKey, data); err != nil {
			logging.Warn("archive cache write failed", "url", url, "error", err)
		}
	}
	logging.ArchiveFetch(url, len(data))
	return data, nil
}

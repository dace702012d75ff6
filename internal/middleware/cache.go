package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/config"
)

// storeIfCurrent writes the cached response only while the purge
// generation still matches the one read before the handler ran.
var storeIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ResponseCache stores 200 responses of cacheable routes in Redis and
// drops all of them after any successful write.  A nil client or a
// disabled config turns both middlewares into pass-throughs.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
	log *zap.Logger
}

func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *ResponseCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &ResponseCache{cfg: cfg, rdb: rdb, log: log.Named("cache")}
}

func (rc *ResponseCache) enabled() bool { return rc.cfg.Enabled && rc.rdb != nil }

// Middleware serves hits from Redis and records misses.  Responses carry
// X-Cache: HIT or MISS.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if !rc.enabled() {
		return passThrough
	}
	maxBody := int64(rc.cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rc.cfg.Caches(c.Request().Method) {
				return next(c)
			}
			ctx := c.Request().Context()
			key := rc.key(c)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			// a purge between here and the store means the body may predate the write
			gen, err := rc.rdb.Get(ctx, rc.genKey()).Result()
			if errors.Is(err, redis.Nil) {
				gen = "0"
			} else if err != nil {
				return next(c)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			// a truncated body would be served broken, so skip it
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
			if err != nil {
				return nil
			}
			keys := []string{key, rc.genKey()}
			stored, err := storeIfCurrent.Run(context.WithoutCancel(ctx), rc.rdb, keys, gen, payload, rc.cfg.TTL.Milliseconds()).Int()
			if err != nil {
				rc.log.Warn("store failed", zap.String("key", key), zap.Error(err))
			} else if stored == 0 {
				rc.log.Debug("store skipped, purged during request", zap.String("key", key))
			}
			return nil
		}
	}
}

// PurgeOnWrite clears the cache after a state-changing request (any
// method the cache does not serve) finishes with a 2xx status.
func (rc *ResponseCache) PurgeOnWrite() echo.MiddlewareFunc {
	if !rc.enabled() {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || rc.cfg.Caches(c.Request().Method) {
				return err
			}
			if s := c.Response().Status; s >= 200 && s < 300 {
				rc.Purge(context.WithoutCancel(c.Request().Context()))
			}
			return nil
		}
	}
}

// Purge deletes every cached response.  The generation is bumped first
// so responses still in flight are not stored afterwards.
func (rc *ResponseCache) Purge(ctx context.Context) {
	if !rc.enabled() {
		return
	}
	if err := rc.rdb.Incr(ctx, rc.genKey()).Err(); err != nil {
		rc.log.Warn("purge generation bump failed", zap.Error(err))
	}
	iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		rc.log.Warn("purge scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
		rc.log.Warn("purge failed", zap.Error(err))
	}
}

// key hashes the parts selected by KeyStrategy under the configured prefix.
// genKey sits outside the prefix:* pattern Purge deletes.
func (rc *ResponseCache) genKey() string { return rc.cfg.Prefix + "-gen" }

func (rc *ResponseCache) key(c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(rc.cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default:
		// route_query; the concrete path keeps /hostels/1/rooms and /hostels/2/rooms apart
		parts = []string{"route", r.URL.Path, "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// captureWriter tees the response body into buf, up to limit bytes.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
		cw.truncated = true
	} else if !cw.truncated {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
	return out, nil
}

func decodePayload(bs []byte) (int, http.Header, []byte, bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := http.Header{}
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

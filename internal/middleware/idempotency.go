package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyHeader   = "Idempotency-Key"
	replayHeader        = "Idempotent-Replayed"
	idempotencyTTL      = 24 * time.Hour
	idempotencyLockTTL  = 30 * time.Second
	idempotencyKeyspace = "idempotency:"
)

// storedResponse is a response kept for replay.
type storedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter copies the response body as it is written.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyMiddleware replays the stored response of a mutating request
// whose Idempotency-Key was already seen on the same method and path. A
// retry that arrives while the first request is still running gets 409.
// Server errors are not stored so the client may retry them.
func IdempotencyMiddleware(redisClient *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := idempotencyKeyspace + c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		stored, err := loadResponse(ctx, redisClient, storeKey)
		if err != nil {
			logger.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if stored != nil {
			c.Header(replayHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		lockKey := storeKey + ":lock"
		acquired, err := redisClient.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a request with this idempotency key is in progress"})
			return
		}

		bg := context.WithoutCancel(ctx)
		defer redisClient.Del(bg, lockKey)

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		resp := storedResponse{
			StatusCode:  status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := saveResponse(bg, redisClient, storeKey, &resp); err != nil {
			logger.Warn("idempotency store failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// loadResponse returns nil, nil when nothing is stored under key.
func loadResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func saveResponse(ctx context.Context, client *redis.Client, key string, resp *storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, idempotencyTTL).Err()
}

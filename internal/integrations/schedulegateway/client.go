package schedulegateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ActorHeader заголовок с идентификатором оператора
const ActorHeader = "X-User-ID"

// Client клиент шлюза расписаний
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient создает новый экземпляр клиента шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// UseRedisCache включает кэширование истории ёмкости в Redis
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchSchedule получает расписание владельца.
// Если расписание ещё не сохранялось, возвращает ErrScheduleNotFound.
func (c *Client) FetchSchedule(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error) {
	endpoint := fmt.Sprintf("%s/api/v1/owners/%d/schedule", c.baseURL, ownerID)

	env, status, err := c.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: owner_id=%d", ErrScheduleNotFound, ownerID)
		}
		return nil, err
	}

	var body ScheduleBody
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &body); err != nil {
			return nil, fmt.Errorf("%w: failed to decode schedule: %v", ErrInvalidResponse, err)
		}
	}
	if body.Days == nil {
		body.Days = domain.CanonicalSchedule{}
	}

	return body.Days, nil
}

// SaveSchedule сохраняет расписание целиком
func (c *Client) SaveSchedule(ctx context.Context, ownerID int64, schedule domain.CanonicalSchedule) (*SaveResult, error) {
	endpoint := fmt.Sprintf("%s/api/v1/owners/%d/schedule", c.baseURL, ownerID)

	env, _, err := c.do(ctx, http.MethodPut, endpoint, ScheduleBody{Days: schedule}, nil)
	if err != nil {
		c.log.Warn("Failed to save schedule for owner_id=%d: %v", ownerID, err)
		return nil, err
	}

	c.invalidateOwnerHistory(ctx, ownerID)

	return &SaveResult{Message: env.Message}, nil
}

// FetchHistory получает историю изменений ёмкости слота, новые записи первыми
func (c *Client) FetchHistory(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error) {
	cacheKey := historyCacheKey(ownerID, batchID)

	var records []HistoryRecord
	if !c.readCache(ctx, cacheKey, &records) {
		endpoint := fmt.Sprintf("%s/api/v1/owners/%d/slots/%s/history", c.baseURL, ownerID, url.PathEscape(batchID))

		env, _, err := c.do(ctx, http.MethodGet, endpoint, nil, nil)
		if err != nil {
			return nil, err
		}
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &records); err != nil {
				return nil, fmt.Errorf("%w: failed to decode history: %v", ErrInvalidResponse, err)
			}
		}
		c.writeCache(ctx, cacheKey, records)
	}

	history := make([]domain.CapacityAdjustment, 0, len(records))
	for _, r := range records {
		history = append(history, r.ToDomain())
	}
	return history, nil
}

// UpdateCapacity просит шлюз изменить ёмкость слота и возвращает подтверждённое значение
func (c *Client) UpdateCapacity(
	ctx context.Context,
	ownerID int64,
	batchID string,
	action domain.CapacityAction,
	value int,
	actor *string,
) (*UpdateCapacityResult, error) {
	endpoint := fmt.Sprintf("%s/api/v1/owners/%d/slots/%s/token", c.baseURL, ownerID, url.PathEscape(batchID))

	headers := map[string]string{}
	if actor != nil && *actor != "" {
		headers[ActorHeader] = *actor
	}

	env, _, err := c.do(ctx, http.MethodPost, endpoint, UpdateCapacityRequest{Action: string(action), Value: value}, headers)
	if err != nil {
		return nil, err
	}
	if env.NewToken == nil {
		return nil, fmt.Errorf("%w: newToken is missing", ErrInvalidResponse)
	}

	c.invalidateCache(ctx, historyCacheKey(ownerID, batchID))

	return &UpdateCapacityResult{NewToken: *env.NewToken, Message: env.Message}, nil
}

// do выполняет запрос и разбирает конверт ответа.
// Статус возвращается и при ошибке, чтобы вызывающий мог отличить 404.
func (c *Client) do(
	ctx context.Context,
	method, endpoint string,
	body interface{},
	headers map[string]string,
) (*Envelope, int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && !env.Success) {
		message := env.Message
		if decodeErr != nil || message == "" {
			message = DefaultRemoteMessage
		}
		return nil, resp.StatusCode, &RemoteError{Status: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, decodeErr)
	}

	return &env, resp.StatusCode, nil
}

// historyCacheKey ключ кэша истории. batch ID позиционный: после удаления слота тот же ключ
// относится к другому слоту, поэтому SaveSchedule сбрасывает все ключи владельца.
func historyCacheKey(ownerID int64, batchID string) string {
	return fmt.Sprintf("schedule:history:%d:%s", ownerID, batchID)
}

func (c *Client) readCache(ctx context.Context, key string, out interface{}) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Failed to read cache key=%s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val interface{}) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Warn("Failed to write cache key=%s: %v", key, err)
	}
}

func (c *Client) invalidateCache(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Failed to invalidate cache key=%s: %v", key, err)
	}
}

// invalidateOwnerHistory удаляет из кэша историю всех слотов владельца
func (c *Client) invalidateOwnerHistory(ctx context.Context, ownerID int64) {
	if c.redis == nil {
		return
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, historyCacheKey(ownerID, "*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Failed to scan history cache for owner_id=%d: %v", ownerID, err)
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Failed to invalidate history cache for owner_id=%d: %v", ownerID, err)
	}
}

// Package transport is the pooled, deadline-aware RPC client used to reach
// planner backend instances. It performs no retries.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/puddle/v2"
	"github.com/journey-planner/internal/breaker"
	"go.uber.org/zap"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultPoolSize    = 8
	defaultConnTTL     = 10 * time.Minute
	defaultDialTimeout = 2 * time.Second
)

// Config - настройки канала
type Config struct {
	// Instances - ключ инстанса (регион) -> host:port
	Instances    map[string]string
	Timeout      time.Duration
	PoolSize     int
	ConnTTL      time.Duration
	DialTimeout  time.Duration
	FailMax      int
	ResetTimeout time.Duration
}

// Dialer открывает соединение с backend'ом
type Dialer func(ctx context.Context, network, address string) (net.Conn, error)

// Option - опция канала
type Option func(*Channel)

// WithDialer подменяет способ открытия соединений
func WithDialer(d Dialer) Option {
	return func(c *Channel) {
		c.dial = d
	}
}

type instance struct {
	key     string
	addr    string
	pool    *puddle.Pool[net.Conn]
	breaker *breaker.CircuitBreaker
}

// Channel держит по пулу соединений и breaker'у на каждый инстанс
type Channel struct {
	cfg    Config
	dial   Dialer
	logger *zap.Logger

	mu        sync.RWMutex
	instances map[string]*instance
}

// NewChannel создает канал и пулы для всех сконфигурированных инстансов.
// Соединения открываются лениво, при первом запросе.
func NewChannel(cfg Config, logger *zap.Logger, opts ...Option) (*Channel, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.ConnTTL == 0 {
		cfg.ConnTTL = defaultConnTTL
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	dialer := &net.Dialer{}
	c := &Channel{
		cfg:       cfg,
		dial:      dialer.DialContext,
		logger:    logger,
		instances: make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(c)
	}

	for key, addr := range cfg.Instances {
		if err := c.AddInstance(key, addr); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

// AddInstance регистрирует инстанс backend'а
func (c *Channel) AddInstance(key, addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instances[key]; exists {
		return fmt.Errorf("instance %s already registered", key)
	}

	pool, err := puddle.NewPool(&puddle.Config[net.Conn]{
		Constructor: func(ctx context.Context) (net.Conn, error) {
			dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
			defer cancel()
			return c.dial(dialCtx, "tcp", addr)
		},
		Destructor: func(conn net.Conn) {
			_ = conn.Close()
		},
		MaxSize: int32(c.cfg.PoolSize),
	})
	if err != nil {
		return fmt.Errorf("failed to create pool for %s: %w", key, err)
	}

	c.instances[key] = &instance{
		key:  key,
		addr: addr,
		pool: pool,
		breaker: breaker.New(breaker.Settings{
			Name:         "backend:" + key,
			FailMax:      c.cfg.FailMax,
			ResetTimeout: c.cfg.ResetTimeout,
			Logger:       c.logger,
		}),
	}

	c.logger.Info("Backend instance registered",
		zap.String("instance", key),
		zap.String("address", addr),
		zap.Int("pool_size", c.cfg.PoolSize))
	return nil
}

// Instances возвращает отсортированный список ключей
func (c *Channel) Instances() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.instances))
	for k := range c.instances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BreakerState возвращает состояние breaker'а инстанса
func (c *Channel) BreakerState(key string) (breaker.State, bool) {
	inst, ok := c.instance(key)
	if !ok {
		return "", false
	}
	return inst.breaker.State(), true
}

func (c *Channel) instance(key string) (*instance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instances[key]
	return inst, ok
}

// SendAndReceive отправляет запрос инстансу и ждет ответ не дольше timeout.
// Любой сбой возвращается как *DeadBackendError. Ошибка в Response.Error -
// функциональная и breaker'ом не учитывается.
func (c *Channel) SendAndReceive(ctx context.Context, req *Request, instanceKey string, timeout time.Duration) (*Response, error) {
	inst, ok := c.instance(instanceKey)
	if !ok {
		return nil, &DeadBackendError{Instance: instanceKey, Err: ErrUnknownInstance}
	}

	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req.RequestID = uuid.NewString()
	req.Deadline = deadline.UTC()

	var (
		resp      *Response
		exhausted error
	)
	err := inst.breaker.Call(func() error {
		r, err := c.roundTrip(ctx, inst, req, deadline)
		if errors.Is(err, ErrPoolExhausted) {
			// занятый пул - не сбой backend'а
			exhausted = err
			return nil
		}
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err == nil && exhausted != nil {
		err = exhausted
	}
	if err != nil {
		if errors.Is(err, breaker.ErrCircuitOpen) {
			inst.discardIdle()
		}
		c.logger.Warn("Backend call failed",
			zap.String("instance", instanceKey),
			zap.String("api", string(req.RequestedAPI)),
			zap.String("request_id", req.RequestID),
			zap.Error(err))
		return nil, &DeadBackendError{Instance: instanceKey, RequestID: req.RequestID, Err: err}
	}

	c.logger.Debug("Backend call succeeded",
		zap.String("instance", instanceKey),
		zap.String("api", string(req.RequestedAPI)),
		zap.String("request_id", req.RequestID))
	return resp, nil
}

func (c *Channel) roundTrip(ctx context.Context, inst *instance, req *Request, deadline time.Time) (*Response, error) {
	acquireCtx, cancel := context.WithDeadline(ctx, deadline)
	res, err := c.checkout(acquireCtx, inst)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && errors.Is(acquireCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrPollTimeout, ErrPoolExhausted)
		}
		return nil, fmt.Errorf("checkout connection: %w", err)
	}
	conn := res.Value()

	if err := conn.SetDeadline(deadline); err != nil {
		res.Destroy()
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if err := WriteFrame(conn, req); err != nil {
		res.Destroy()
		return nil, fmt.Errorf("send request: %w", err)
	}

	var resp Response
	if err := ReadFrame(conn, &resp); err != nil {
		// сокет в неизвестном состоянии: выбрасываем, следующий вызов откроет новый
		res.Destroy()
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrPollTimeout, err)
		}
		return nil, fmt.Errorf("receive response: %w", err)
	}

	if resp.RequestID != req.RequestID {
		res.Destroy()
		return nil, fmt.Errorf("%w: got %s, want %s", ErrCorrelationMismatch, resp.RequestID, req.RequestID)
	}

	_ = conn.SetDeadline(time.Time{})
	res.Release()
	return &resp, nil
}

// checkout берет соединение из пула, отбрасывая простаивавшие дольше ConnTTL
// (backend за балансировщиком мог смениться). ctx ограничен дедлайном вызова.
func (c *Channel) checkout(ctx context.Context, inst *instance) (*puddle.Resource[net.Conn], error) {
	maxAttempts := c.cfg.PoolSize + 1
	for attempt := 1; ; attempt++ {
		res, err := inst.pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		if c.cfg.ConnTTL < 0 || res.IdleDuration() <= c.cfg.ConnTTL || attempt >= maxAttempts {
			return res, nil
		}
		c.logger.Debug("Discarding idle connection",
			zap.String("instance", inst.key),
			zap.Duration("idle", res.IdleDuration()))
		res.Destroy()
	}
}

func (inst *instance) discardIdle() {
	for _, res := range inst.pool.AcquireAllIdle() {
		res.Destroy()
	}
}

// Close закрывает все пулы
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, inst := range c.instances {
		inst.pool.Close()
		c.logger.Info("Backend pool closed", zap.String("instance", key))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

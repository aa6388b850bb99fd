// Package stm keeps a bounded, ordered window of recent turns per
// conversation in process memory, hydrated lazily from the message store and
// written through to it asynchronously.
package stm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/metrics"
	"health-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxTurns       = 10
	DefaultHydrateLimit   = 10
	DefaultPersistTimeout = 10 * time.Second
	DefaultHydrateTimeout = 10 * time.Second

	logModule = "STM"
)

var (
	ErrInvalidRole = errors.New("stm: invalid role")
	ErrEmptyText   = errors.New("stm: empty message text")
)

type entry struct {
	mu    sync.Mutex
	turns []Turn
}

func (e *entry) append(turn Turn, max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = append(e.turns, turn)
	if over := len(e.turns) - max; over > 0 {
		e.turns = append([]Turn(nil), e.turns[over:]...)
	}
}

// tail copies the newest limit turns; limit <= 0 copies everything.
func (e *entry) tail(limit int) []Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := 0
	if limit > 0 && len(e.turns) > limit {
		start = len(e.turns) - limit
	}
	out := make([]Turn, len(e.turns)-start)
	copy(out, e.turns[start:])
	return out
}

type Option func(*Cache)

func WithMaxTurns(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxTurns = n
		}
	}
}

func WithHydrateLimit(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.hydrateLimit = n
		}
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.persistTimeout = d
		}
	}
}

// WithHydrateTimeout bounds the shared store read; it does not follow any
// single caller's cancellation.
func WithHydrateTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.hydrateTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache maps conversation id to its recent turns. Entries never expire; they
// live until Evict or process exit and are rebuilt from the store on demand.
type Cache struct {
	entries        *cache.Cache
	store          MessageStore
	logger         logger.ILogger
	maxTurns       int
	hydrateLimit   int
	persistTimeout time.Duration
	hydrateTimeout time.Duration
	now            func() time.Time

	hydration singleflight.Group
	pending   sync.WaitGroup
}

func NewCache(store MessageStore, log logger.ILogger, opts ...Option) *Cache {
	c := &Cache{
		entries:        cache.New(cache.NoExpiration, 0),
		store:          store,
		logger:         log,
		maxTurns:       DefaultMaxTurns,
		hydrateLimit:   DefaultHydrateLimit,
		persistTimeout: DefaultPersistTimeout,
		hydrateTimeout: DefaultHydrateTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) lookup(conversationId uuid.UUID) (*entry, bool) {
	if x, found := c.entries.Get(conversationId.String()); found {
		return x.(*entry), true
	}
	return nil, false
}

// entryFor returns the entry, installing an empty one when absent.
func (c *Cache) entryFor(conversationId uuid.UUID) *entry {
	for {
		if e, ok := c.lookup(conversationId); ok {
			return e
		}
		e := &entry{}
		if err := c.entries.Add(conversationId.String(), e, cache.NoExpiration); err == nil {
			metrics.StmEntries.Set(float64(c.entries.ItemCount()))
			return e
		}
	}
}

// EnsureLoaded returns the cached turns, hydrating the entry from the store
// on first access. Concurrent first accesses share a single store read.
func (c *Cache) EnsureLoaded(ctx context.Context, conversationId uuid.UUID) ([]Turn, error) {
	if e, ok := c.lookup(conversationId); ok {
		metrics.StmLookups.WithLabelValues("hit").Inc()
		return e.tail(0), nil
	}

	v, err, _ := c.hydration.Do(conversationId.String(), func() (interface{}, error) {
		if e, ok := c.lookup(conversationId); ok {
			return e, nil
		}
		// Waiters share this read, so the leader's cancellation must not fail them.
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.hydrateTimeout)
		defer cancel()
		return c.hydrate(readCtx, conversationId)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry).tail(0), nil
}

func (c *Cache) hydrate(ctx context.Context, conversationId uuid.UUID) (*entry, error) {
	messages, err := c.store.FindRecent(ctx, conversationId, c.hydrateLimit)
	if err != nil {
		c.logger.Error(logModule, "Failed to hydrate conversation", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           err.Error(),
		})
		return nil, err
	}

	turns := make([]Turn, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		role, ok := RoleFromSender(msg.Sender)
		if !ok {
			c.logger.Warn(logModule, "Skipping message with unknown sender", map[string]interface{}{
				"conversation_id": conversationId.String(),
				"message_id":      msg.Id.String(),
				"sender":          string(msg.Sender),
			})
			continue
		}
		turns = append(turns, Turn{Role: role, Text: msg.Content})
	}
	if over := len(turns) - c.maxTurns; over > 0 {
		turns = turns[over:]
	}

	e := &entry{turns: turns}
	if err := c.entries.Add(conversationId.String(), e, cache.NoExpiration); err != nil {
		// An Append created the entry while we were reading; it wins.
		if existing, ok := c.lookup(conversationId); ok {
			return existing, nil
		}
		c.entries.Set(conversationId.String(), e, cache.NoExpiration)
	}
	metrics.StmLookups.WithLabelValues("hydrated").Inc()
	metrics.StmEntries.Set(float64(c.entries.ItemCount()))

	c.logger.Debug(logModule, "Conversation hydrated", map[string]interface{}{
		"conversation_id": conversationId.String(),
		"turns":           len(turns),
	})
	return e, nil
}

// Append records a turn in memory and schedules its durable write. It never
// waits for, or reports, the write; failures are logged and counted.
func (c *Cache) Append(ctx context.Context, conversationId uuid.UUID, role Role, text string, kind entity.MessageKind) (*entity.Message, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if kind == "" {
		kind = entity.MessageKindText
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	message := &entity.Message{
		Id:             id,
		ConversationId: conversationId,
		Sender:         role.Sender(),
		Content:        text,
		Kind:           kind,
		CreatedAt:      c.now(),
	}

	c.entryFor(conversationId).append(Turn{Role: role, Text: text}, c.maxTurns)
	c.persist(ctx, message)

	return message, nil
}

func (c *Cache) persist(ctx context.Context, message *entity.Message) {
	// The write outlives the request that produced it.
	detached := context.WithoutCancel(ctx)
	record := *message

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		writeCtx, cancel := context.WithTimeout(detached, c.persistTimeout)
		defer cancel()

		if err := c.store.Append(writeCtx, &record); err != nil {
			metrics.StmPersistFailures.Inc()
			c.logger.Error(logModule, "Failed to persist message", map[string]interface{}{
				"conversation_id": record.ConversationId.String(),
				"message_id":      record.Id.String(),
				"sender":          string(record.Sender),
				"error":           err.Error(),
			})
		}
	}()
}

// RecentWindow returns the newest limit turns without touching the store.
// An unloaded conversation yields an empty window.
func (c *Cache) RecentWindow(conversationId uuid.UUID, limit int) []Turn {
	e, ok := c.lookup(conversationId)
	if !ok {
		return []Turn{}
	}
	if limit <= 0 {
		return []Turn{}
	}
	return e.tail(limit)
}

// Evict drops the conversation; the next access hydrates again.
func (c *Cache) Evict(conversationId uuid.UUID) {
	c.entries.Delete(conversationId.String())
	metrics.StmEntries.Set(float64(c.entries.ItemCount()))
}

// Flush blocks until every scheduled write has finished.
func (c *Cache) Flush() {
	c.pending.Wait()
}

// Loaded reports how many conversations are resident.
func (c *Cache) Loaded() int {
	return c.entries.ItemCount()
}

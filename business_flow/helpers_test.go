package businessflow

import (
	"context"
	"errors"
	"sync"

	"github.com/amirphl/spam-guard/models"
)

// memoryVerdictCache is an in-process VerdictCache that records its traffic
type memoryVerdictCache struct {
	mu          sync.Mutex
	entries     map[string]*models.SpamNumber
	held        map[string]bool
	gets        int
	invalidated []string
	failGets    bool
}

func newMemoryVerdictCache() *memoryVerdictCache {
	return &memoryVerdictCache{entries: map[string]*models.SpamNumber{}, held: map[string]bool{}}
}

func (c *memoryVerdictCache) Get(_ context.Context, number string) (*models.SpamNumber, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGets {
		return nil, false, errors.New("cache unavailable")
	}
	record, ok := c.entries[number]
	return record, ok, nil
}

func (c *memoryVerdictCache) Set(_ context.Context, number string, record *models.SpamNumber) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held[number] {
		return nil
	}
	if _, ok := c.entries[number]; ok {
		return nil
	}
	c.entries[number] = record
	return nil
}

func (c *memoryVerdictCache) Invalidate(_ context.Context, number string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, number)
	c.held[number] = true
	c.invalidated = append(c.invalidated, number)
	return nil
}

// expire ends the hold Invalidate placed on a number, as the TTL would
func (c *memoryVerdictCache) expire(number string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.held, number)
	delete(c.entries, number)
}

// recordingPublisher captures published events and can be told to fail
type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.CallEvent
	err    error
}

func (p *recordingPublisher) PublishCallEvent(_ context.Context, event *models.CallEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

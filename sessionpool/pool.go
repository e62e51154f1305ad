package sessionpool

import (
	"sync"
	"time"

	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/ntcp2"
	"github.com/samber/oops"
)

// entry wraps one completed handshake result with pooling bookkeeping.
type entry struct {
	result   *ntcp2.Result
	created  time.Time
	lastUsed time.Time
	inUse    bool
}

// Pool holds completed NTCP2 sessions keyed by remote router hash. Only
// interface-free concrete types from ntcp2/common are stored; the pool
// itself has no transport-layer dependency.
type Pool struct {
	mu       sync.RWMutex
	sessions map[common.Hash][]*entry
	maxSize  int
	maxAge   time.Duration
	maxIdle  time.Duration
	closed   bool
}

// NewPool creates a session pool with the given configuration. A nil config
// uses DefaultConfig.
func NewPool(cfg *Config) *Pool {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &Pool{
		sessions: make(map[common.Hash][]*entry),
		maxSize:  cfg.MaxPerPeer,
		maxAge:   cfg.MaxAge,
		maxIdle:  cfg.MaxIdle,
	}
	go p.cleanup()
	return p
}

// Get returns an available pooled session for peerHash, or false if none is
// available or valid.
func (p *Pool) Get(peerHash common.Hash) (*ntcp2.Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false
	}

	for _, e := range p.sessions[peerHash] {
		if !e.inUse && p.isValid(e) {
			e.inUse = true
			e.lastUsed = time.Now()
			return e.result, true
		}
	}
	return nil, false
}

// Put adds a freshly completed session to the pool for future reuse.
func (p *Pool) Put(result *ntcp2.Result) error {
	if result == nil || result.PeerRouterInfo == nil {
		return oops.Code("NIL_RESULT").In("sessionpool").Errorf("cannot pool a nil handshake result")
	}
	peerHash := result.PeerRouterInfo.Hash()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	list := p.sessions[peerHash]
	if len(list) >= p.maxSize {
		return nil
	}

	now := time.Now()
	p.sessions[peerHash] = append(list, &entry{result: result, created: now, lastUsed: now})
	return nil
}

// Release marks a session as no longer in use, making it eligible for reuse
// or eviction.
func (p *Pool) Release(peerHash common.Hash, result *ntcp2.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range p.sessions[peerHash] {
		if e.result == result {
			e.inUse = false
			e.lastUsed = time.Now()
			return
		}
	}
}

// Close empties the pool. Pooled sessions are dropped; it is the caller's
// responsibility to close any underlying connections before discarding them.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.sessions = make(map[common.Hash][]*entry)
	return nil
}

// Stats reports pool occupancy for diagnostics.
func (p *Pool) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	total, inUse := 0, 0
	for _, list := range p.sessions {
		total += len(list)
		for _, e := range list {
			if e.inUse {
				inUse++
			}
		}
	}
	return map[string]int{
		"total":     total,
		"in_use":    inUse,
		"available": total - inUse,
		"peers":     len(p.sessions),
	}
}

func (p *Pool) isValid(e *entry) bool {
	now := time.Now()
	if p.maxAge > 0 && now.Sub(e.created) > p.maxAge {
		return false
	}
	if p.maxIdle > 0 && now.Sub(e.lastUsed) > p.maxIdle {
		return false
	}
	return true
}

func (p *Pool) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		for peerHash, list := range p.sessions {
			kept := list[:0]
			for _, e := range list {
				if e.inUse || p.isValid(e) {
					kept = append(kept, e)
				}
			}
			if len(kept) == 0 {
				delete(p.sessions, peerHash)
			} else {
				p.sessions[peerHash] = kept
			}
		}
		p.mu.Unlock()
	}
}

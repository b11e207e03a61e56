package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/sakshamg567/blockfall/logger"
)

const (
	recentKey  = "blockfall:results:recent"
	recentKeep = 100
	queueSize  = 64
)

type Standing struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Lines    int    `json:"lines"`
	GameOver bool   `json:"gameOver"`
}

// MatchResult is what gets published when a match concludes. Winner is
// empty when every player was eliminated.
type MatchResult struct {
	Room    string     `json:"room"`
	Winner  string     `json:"winner"`
	Players []Standing `json:"players"`
	EndedAt time.Time  `json:"endedAt"`
}

// Pool is the part of *redis.Pool the publisher needs.
type Pool interface {
	Get() redis.Conn
}

func NewPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}
}

// Publisher pushes match results to a Redis channel and keeps a capped
// list of recent ones. Record never blocks; Run does the network work.
type Publisher struct {
	pool    Pool
	channel string
	queue   chan MatchResult
}

func NewPublisher(pool Pool, channel string) *Publisher {
	return &Publisher{
		pool:    pool,
		channel: channel,
		queue:   make(chan MatchResult, queueSize),
	}
}

// Record queues a result, dropping it if the queue is full.
func (p *Publisher) Record(r MatchResult) {
	select {
	case p.queue <- r:
	default:
		logger.Warn("results queue full, dropping result for room %s", r.Room)
	}
}

func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-p.queue:
			if err := p.publish(r); err != nil {
				logger.Error("publish result for room %s: %v", r.Room, err)
			}
		}
	}
}

func (p *Publisher) publish(r MatchResult) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}

	conn := p.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("PUBLISH", p.channel, payload); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if _, err := conn.Do("LPUSH", recentKey, payload); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	if _, err := conn.Do("LTRIM", recentKey, 0, recentKeep-1); err != nil {
		return fmt.Errorf("ltrim: %w", err)
	}
	logger.Debug("published result for room %s", r.Room)
	return nil
}

// Recent returns up to n results, newest first.
func (p *Publisher) Recent(n int) ([]MatchResult, error) {
	if n <= 0 || n > recentKeep {
		n = recentKeep
	}
	conn := p.pool.Get()
	defer conn.Close()

	raw, err := redis.ByteSlices(conn.Do("LRANGE", recentKey, 0, n-1))
	if err != nil {
		return nil, fmt.Errorf("lrange: %w", err)
	}
	out := make([]MatchResult, 0, len(raw))
	for _, b := range raw {
		var r MatchResult
		if err := json.Unmarshal(b, &r); err != nil {
			logger.Warn("skipping malformed result: %v", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

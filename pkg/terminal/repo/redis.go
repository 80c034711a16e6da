package repo

import (
	"context"
	"fmt"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	"github.com/gomodule/redigo/redis"
)

const (
	quoteKeyPrefix = "quote:"
	marketWatchKey = "marketwatch"
)

// QuotesDB keeps live quotes as hashes (quote:<SYMBOL>) and the market watch
// as a set of selected symbols.
type QuotesDB struct {
	Pool *redis.Pool
}

func NewQuotesDB(addr string) *QuotesDB {
	return &QuotesDB{
		Pool: &redis.Pool{
			MaxIdle:     4,
			IdleTimeout: 5 * time.Minute,
			Dial: func() (redis.Conn, error) {
				return redis.DialURL(addr)
			},
		},
	}
}

func (qr *QuotesDB) conn(ctx context.Context) (redis.Conn, error) {
	return qr.Pool.GetContext(ctx)
}

func (qr *QuotesDB) Ping(ctx context.Context) error {
	c, err := qr.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	result, err := redis.String(c.Do("PING"))
	if err != nil {
		return err
	}
	if result != "PONG" {
		return fmt.Errorf("unexpected ping reply %v", result)
	}
	return nil
}

func (qr *QuotesDB) SetQuote(ctx context.Context, q *bridgePkg.Quote) error {
	c, err := qr.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	_, err = c.Do("HSET", redis.Args{}.Add(quoteKeyPrefix+q.Symbol).AddFlat(q)...)
	return err
}

// GetQuote returns nil when no tick was stored for the symbol.
func (qr *QuotesDB) GetQuote(ctx context.Context, symbol string) (*bridgePkg.Quote, error) {
	c, err := qr.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	values, err := redis.Values(c.Do("HGETALL", quoteKeyPrefix+symbol))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	q := &bridgePkg.Quote{Symbol: symbol}
	if err := redis.ScanStruct(values, q); err != nil {
		return nil, fmt.Errorf("quote %v: %w", symbol, err)
	}
	return q, nil
}

func (qr *QuotesDB) IsSelected(ctx context.Context, symbol string) (bool, error) {
	c, err := qr.conn(ctx)
	if err != nil {
		return false, err
	}
	defer c.Close()
	return redis.Bool(c.Do("SISMEMBER", marketWatchKey, symbol))
}

// Select is a single SADD/SREM so the market watch never sees a partial
// change.
func (qr *QuotesDB) Select(ctx context.Context, symbol string, enable bool) error {
	c, err := qr.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	cmd := "SREM"
	if enable {
		cmd = "SADD"
	}
	_, err = c.Do(cmd, marketWatchKey, symbol)
	return err
}

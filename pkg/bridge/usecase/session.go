package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

// Session owns the bridge's single connection to the terminal. Native calls are
// issued one at a time; validation and filtering happen outside the slot.
type Session struct {
	terminal    bridgePkg.Terminal
	slot        chan struct{}
	connected   atomic.Bool
	callTimeout time.Duration
}

type Option func(*Session)

// WithCallTimeout bounds each read call made to the terminal.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.callTimeout = d
	}
}

func NewSession(terminal bridgePkg.Terminal, opts ...Option) *Session {
	s := &Session{
		terminal: terminal,
		slot:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Connected() bool {
	return s.connected.Load()
}

func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		s.release()
		return err
	}
	return nil
}

func (s *Session) release() {
	<-s.slot
}

func (s *Session) read(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if !s.connected.Load() {
		return bridgePkg.ErrNotConnected
	}
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	return fn(ctx)
}

func (s *Session) Connect(ctx context.Context) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if err := s.terminal.Connect(ctx); err != nil {
		s.connected.Store(false)
		return fmt.Errorf("connect: %w", err)
	}
	s.connected.Store(true)
	return nil
}

func (s *Session) Disconnect(ctx context.Context) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if !s.connected.Load() {
		return nil
	}
	// a failed native disconnect leaves the session up
	if err := s.terminal.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.connected.Store(false)
	return nil
}

func (s *Session) TerminalInfo(ctx context.Context) (*bridgePkg.TerminalInfo, error) {
	var info *bridgePkg.TerminalInfo
	err := s.read(ctx, func(ctx context.Context) (err error) {
		info, err = s.terminal.Info(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *Session) Symbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := s.read(ctx, func(ctx context.Context) (err error) {
		symbols, err = s.terminal.Symbols(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}

// SelectSymbol is the only mutating call. Once the native call is issued it
// runs to completion even if the caller goes away.
func (s *Session) SelectSymbol(ctx context.Context, symbol string, enable bool) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", bridgePkg.ErrInvalidParams)
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if !s.connected.Load() {
		return bridgePkg.ErrNotConnected
	}
	return s.terminal.SelectSymbol(context.WithoutCancel(ctx), symbol, enable)
}

func (s *Session) SymbolInfo(ctx context.Context, symbol string) (*bridgePkg.SymbolInfo, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", bridgePkg.ErrInvalidParams)
	}
	var info *bridgePkg.SymbolInfo
	err := s.read(ctx, func(ctx context.Context) (err error) {
		info, err = s.terminal.SymbolInfo(ctx, symbol)
		return err
	})
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("symbol info %v: %w", symbol, bridgePkg.ErrSymbolNotFound)
	}
	if info.Symbol == "" {
		info.Symbol = symbol
	}
	return info, nil
}

func (s *Session) PositionsTotal(ctx context.Context) (int, error) {
	var total int
	err := s.read(ctx, func(ctx context.Context) (err error) {
		total, err = s.terminal.PositionsTotal(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Session) Positions(ctx context.Context, group string) ([]*bridgePkg.Position, error) {
	g, err := bridgePkg.ParseGroup(group)
	if err != nil {
		return nil, err
	}
	var positions []*bridgePkg.Position
	err = s.read(ctx, func(ctx context.Context) (err error) {
		positions, err = s.terminal.Positions(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bridgePkg.FilterBySymbol(positions, g, func(p *bridgePkg.Position) string { return p.Symbol }), nil
}

func (s *Session) Orders(ctx context.Context, group string) ([]*bridgePkg.Order, error) {
	g, err := bridgePkg.ParseGroup(group)
	if err != nil {
		return nil, err
	}
	var orders []*bridgePkg.Order
	err = s.read(ctx, func(ctx context.Context) (err error) {
		orders, err = s.terminal.Orders(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return filterOrders(orders, g), nil
}

func (s *Session) OrdersTotal(ctx context.Context) (int, error) {
	orders, err := s.Orders(ctx, "")
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

func (s *Session) Deals(ctx context.Context, tf *bridgePkg.TimeFilter, group string) ([]*bridgePkg.Deal, error) {
	if err := ValidateTimeFilter(tf); err != nil {
		return nil, err
	}
	g, err := bridgePkg.ParseGroup(group)
	if err != nil {
		return nil, err
	}
	var deals []*bridgePkg.Deal
	err = s.read(ctx, func(ctx context.Context) (err error) {
		deals, err = s.terminal.Deals(ctx, *tf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bridgePkg.FilterBySymbol(deals, g, func(d *bridgePkg.Deal) string { return d.Symbol }), nil
}

func (s *Session) DealsTotal(ctx context.Context, tf *bridgePkg.TimeFilter) (int, error) {
	if err := ValidateTimeFilter(tf); err != nil {
		return 0, err
	}
	var total int
	err := s.read(ctx, func(ctx context.Context) (err error) {
		total, err = s.terminal.DealsTotal(ctx, *tf)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Session) HistoryOrders(ctx context.Context, tf *bridgePkg.TimeFilter, group string) ([]*bridgePkg.Order, error) {
	if err := ValidateTimeFilter(tf); err != nil {
		return nil, err
	}
	g, err := bridgePkg.ParseGroup(group)
	if err != nil {
		return nil, err
	}
	var orders []*bridgePkg.Order
	err = s.read(ctx, func(ctx context.Context) (err error) {
		orders, err = s.terminal.HistoryOrders(ctx, *tf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return filterOrders(orders, g), nil
}

// HistoryOrdersTotal counts without materialising records; it agrees with
// len(HistoryOrders(tf, "*")).
func (s *Session) HistoryOrdersTotal(ctx context.Context, tf *bridgePkg.TimeFilter) (int, error) {
	if err := ValidateTimeFilter(tf); err != nil {
		return 0, err
	}
	var total int
	err := s.read(ctx, func(ctx context.Context) (err error) {
		total, err = s.terminal.HistoryOrdersTotal(ctx, *tf)
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func ValidateTimeFilter(tf *bridgePkg.TimeFilter) error {
	if tf == nil {
		return fmt.Errorf("%w: time filter is required", bridgePkg.ErrInvalidParams)
	}
	if tf.DateFrom > tf.DateTo {
		return fmt.Errorf("%w: date_from %v is after date_to %v", bridgePkg.ErrInvalidRange, tf.DateFrom, tf.DateTo)
	}
	return nil
}

func filterOrders(orders []*bridgePkg.Order, g *bridgePkg.Group) []*bridgePkg.Order {
	return bridgePkg.FilterBySymbol(orders, g, func(o *bridgePkg.Order) string { return o.Symbol })
}

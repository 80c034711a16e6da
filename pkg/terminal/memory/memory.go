package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

// Terminal is an in-process terminal. It keeps symbols in the order they were
// added and answers every lookup with a copy of its state.
type Terminal struct {
	mu        sync.RWMutex
	connected bool
	failure   error
	authErr   error

	info      bridgePkg.TerminalInfo
	symbols   []*symbolState
	index     map[string]*symbolState
	orders    []bridgePkg.Order
	history   []bridgePkg.Order
	deals     []bridgePkg.Deal
	positions []bridgePkg.Position

	calls int64
}

type symbolState struct {
	info     bridgePkg.SymbolInfo
	selected bool
}

func New() *Terminal {
	return &Terminal{index: make(map[string]*symbolState)}
}

func NewFromFixtures(f *Fixtures) *Terminal {
	t := New()
	t.info = f.Terminal
	for _, s := range f.Symbols {
		t.AddSymbol(s.SymbolInfo, s.Selected)
	}
	t.orders = append(t.orders, f.Orders...)
	t.history = append(t.history, f.HistoryOrders...)
	t.deals = append(t.deals, f.Deals...)
	t.positions = append(t.positions, f.Positions...)
	return t
}

func (t *Terminal) SetInfo(info bridgePkg.TerminalInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.info = info
}

func (t *Terminal) AddSymbol(info bridgePkg.SymbolInfo, selected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.index[info.Symbol]; ok {
		s.info = info
		s.selected = selected
		return
	}
	s := &symbolState{info: info, selected: selected}
	t.symbols = append(t.symbols, s)
	t.index[info.Symbol] = s
}

func (t *Terminal) AddOrder(o bridgePkg.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.orders = append(t.orders, o)
}

func (t *Terminal) AddHistoryOrder(o bridgePkg.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, o)
}

func (t *Terminal) AddDeal(d bridgePkg.Deal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deals = append(t.deals, d)
}

func (t *Terminal) AddPosition(p bridgePkg.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.positions = append(t.positions, p)
}

// UpdateQuote applies a tick to a known symbol; ticks for unknown symbols are
// dropped.
func (t *Terminal) UpdateQuote(q *bridgePkg.Quote) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.index[q.Symbol]
	if !ok {
		return false
	}
	s.info.Bid = q.Bid
	s.info.Ask = q.Ask
	s.info.Last = q.Last
	s.info.Time = q.Time
	if s.info.Point > 0 {
		s.info.Spread = int32(math.Round((q.Ask - q.Bid) / s.info.Point))
	}
	return true
}

// InjectFailure makes every call except Connect fail with err until cleared
// with nil.
func (t *Terminal) InjectFailure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failure = err
}

// RejectConnect makes Connect fail with err until cleared with nil.
func (t *Terminal) RejectConnect(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.authErr = err
}

// Calls reports how many native calls reached the terminal.
func (t *Terminal) Calls() int64 {
	return atomic.LoadInt64(&t.calls)
}

func (t *Terminal) enter() {
	atomic.AddInt64(&t.calls, 1)
}

func (t *Terminal) ready() error {
	if !t.connected {
		return bridgePkg.ErrNotConnected
	}
	return t.failure
}

func (t *Terminal) Connect(ctx context.Context) error {
	t.enter()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.authErr != nil {
		return t.authErr
	}
	t.connected = true
	return nil
}

func (t *Terminal) Disconnect(ctx context.Context) error {
	t.enter()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failure != nil {
		return t.failure
	}
	t.connected = false
	return nil
}

func (t *Terminal) Info(ctx context.Context) (*bridgePkg.TerminalInfo, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	info := t.info
	info.Connected = t.connected
	return &info, nil
}

func (t *Terminal) Symbols(ctx context.Context) ([]string, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(t.symbols))
	for _, s := range t.symbols {
		names = append(names, s.info.Symbol)
	}
	return names, nil
}

func (t *Terminal) SelectSymbol(ctx context.Context, symbol string, enable bool) error {
	t.enter()
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready(); err != nil {
		return err
	}
	s, ok := t.index[symbol]
	if !ok {
		return fmt.Errorf("select %v: %w", symbol, bridgePkg.ErrSymbolNotFound)
	}
	s.selected = enable
	return nil
}

func (t *Terminal) SymbolInfo(ctx context.Context, symbol string) (*bridgePkg.SymbolInfo, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	s, ok := t.index[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol info %v: %w", symbol, bridgePkg.ErrSymbolNotFound)
	}
	if !s.selected {
		return nil, fmt.Errorf("symbol info %v: %w", symbol, bridgePkg.ErrSymbolNotSelected)
	}
	info := s.info
	info.Select = true
	info.Visible = true
	return &info, nil
}

func (t *Terminal) Positions(ctx context.Context) ([]*bridgePkg.Position, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	result := make([]*bridgePkg.Position, 0, len(t.positions))
	for i := range t.positions {
		p := t.positions[i]
		result = append(result, &p)
	}
	return result, nil
}

func (t *Terminal) PositionsTotal(ctx context.Context) (int, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return 0, err
	}
	return len(t.positions), nil
}

func (t *Terminal) Orders(ctx context.Context) ([]*bridgePkg.Order, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	result := make([]*bridgePkg.Order, 0, len(t.orders))
	for i := range t.orders {
		o := t.orders[i]
		result = append(result, &o)
	}
	return result, nil
}

func (t *Terminal) HistoryOrders(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Order, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	result := make([]*bridgePkg.Order, 0)
	for i := range t.history {
		if tf.Contains(t.history[i].TimeSetup) {
			o := t.history[i]
			result = append(result, &o)
		}
	}
	return result, nil
}

func (t *Terminal) HistoryOrdersTotal(ctx context.Context, tf bridgePkg.TimeFilter) (int, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return 0, err
	}
	total := 0
	for i := range t.history {
		if tf.Contains(t.history[i].TimeSetup) {
			total++
		}
	}
	return total, nil
}

func (t *Terminal) Deals(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Deal, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return nil, err
	}
	result := make([]*bridgePkg.Deal, 0)
	for i := range t.deals {
		if tf.Contains(t.deals[i].Time) {
			d := t.deals[i]
			result = append(result, &d)
		}
	}
	return result, nil
}

func (t *Terminal) DealsTotal(ctx context.Context, tf bridgePkg.TimeFilter) (int, error) {
	t.enter()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.ready(); err != nil {
		return 0, err
	}
	total := 0
	for i := range t.deals {
		if tf.Contains(t.deals[i].Time) {
			total++
		}
	}
	return total, nil
}

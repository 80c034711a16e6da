package usecase

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

type TerminalRepo interface {
	Ping(ctx context.Context) error
	GetTerminalInfo(ctx context.Context) (*bridgePkg.TerminalInfo, error)
	GetSymbols(ctx context.Context) ([]string, error)
	GetSymbol(ctx context.Context, symbol string) (*bridgePkg.SymbolInfo, error)
	GetPositions(ctx context.Context) ([]*bridgePkg.Position, error)
	CountPositions(ctx context.Context) (int, error)
	GetOrders(ctx context.Context) ([]*bridgePkg.Order, error)
	GetHistoryOrders(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Order, error)
	CountHistoryOrders(ctx context.Context, tf bridgePkg.TimeFilter) (int, error)
	GetDeals(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Deal, error)
	CountDeals(ctx context.Context, tf bridgePkg.TimeFilter) (int, error)
}

type QuotesRepo interface {
	Ping(ctx context.Context) error
	GetQuote(ctx context.Context, symbol string) (*bridgePkg.Quote, error)
	IsSelected(ctx context.Context, symbol string) (bool, error)
	Select(ctx context.Context, symbol string, enable bool) error
}

// StoreTerminal serves terminal calls from a replica: specifications and
// trade records from PostgreSQL, quotes and the market watch from Redis.
type StoreTerminal struct {
	Repo      TerminalRepo
	Quotes    QuotesRepo
	connected atomic.Bool
}

func NewStoreTerminal(repo TerminalRepo, quotes QuotesRepo) *StoreTerminal {
	return &StoreTerminal{Repo: repo, Quotes: quotes}
}

func (st *StoreTerminal) Connect(ctx context.Context) error {
	if err := st.Repo.Ping(ctx); err != nil {
		st.connected.Store(false)
		return &bridgePkg.NativeError{Code: bridgePkg.CodeFail, Message: fmt.Sprintf("terminal store unreachable: %v", err)}
	}
	if err := st.Quotes.Ping(ctx); err != nil {
		st.connected.Store(false)
		return &bridgePkg.NativeError{Code: bridgePkg.CodeFail, Message: fmt.Sprintf("quotes store unreachable: %v", err)}
	}
	st.connected.Store(true)
	return nil
}

func (st *StoreTerminal) Disconnect(ctx context.Context) error {
	st.connected.Store(false)
	return nil
}

func (st *StoreTerminal) ready() error {
	if !st.connected.Load() {
		return bridgePkg.ErrNotConnected
	}
	return nil
}

func (st *StoreTerminal) Info(ctx context.Context) (*bridgePkg.TerminalInfo, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	info, err := st.Repo.GetTerminalInfo(ctx)
	if err != nil {
		return nil, err
	}
	info.Connected = true
	return info, nil
}

func (st *StoreTerminal) Symbols(ctx context.Context) ([]string, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	return st.Repo.GetSymbols(ctx)
}

func (st *StoreTerminal) SelectSymbol(ctx context.Context, symbol string, enable bool) error {
	if err := st.ready(); err != nil {
		return err
	}
	stored, err := st.Repo.GetSymbol(ctx, symbol)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("select %v: %w", symbol, bridgePkg.ErrSymbolNotFound)
	}
	return st.Quotes.Select(ctx, symbol, enable)
}

// SymbolInfo merges the stored specification with the latest quote.
func (st *StoreTerminal) SymbolInfo(ctx context.Context, symbol string) (*bridgePkg.SymbolInfo, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	info, err := st.Repo.GetSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("symbol info %v: %w", symbol, bridgePkg.ErrSymbolNotFound)
	}
	selected, err := st.Quotes.IsSelected(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !selected {
		return nil, fmt.Errorf("symbol info %v: %w", symbol, bridgePkg.ErrSymbolNotSelected)
	}
	info.Select = true
	info.Visible = true

	quote, err := st.Quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quote != nil {
		info.Bid = quote.Bid
		info.Ask = quote.Ask
		info.Last = quote.Last
		info.Time = quote.Time
		if info.Point > 0 {
			info.Spread = int32(math.Round((quote.Ask - quote.Bid) / info.Point))
		}
	}
	return info, nil
}

func (st *StoreTerminal) Positions(ctx context.Context) ([]*bridgePkg.Position, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	return st.Repo.GetPositions(ctx)
}

func (st *StoreTerminal) PositionsTotal(ctx context.Context) (int, error) {
	if err := st.ready(); err != nil {
		return 0, err
	}
	return st.Repo.CountPositions(ctx)
}

func (st *StoreTerminal) Orders(ctx context.Context) ([]*bridgePkg.Order, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	return st.Repo.GetOrders(ctx)
}

func (st *StoreTerminal) HistoryOrders(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Order, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	return st.Repo.GetHistoryOrders(ctx, tf)
}

func (st *StoreTerminal) HistoryOrdersTotal(ctx context.Context, tf bridgePkg.TimeFilter) (int, error) {
	if err := st.ready(); err != nil {
		return 0, err
	}
	return st.Repo.CountHistoryOrders(ctx, tf)
}

func (st *StoreTerminal) Deals(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Deal, error) {
	if err := st.ready(); err != nil {
		return nil, err
	}
	return st.Repo.GetDeals(ctx, tf)
}

func (st *StoreTerminal) DealsTotal(ctx context.Context, tf bridgePkg.TimeFilter) (int, error) {
	if err := st.ready(); err != nil {
		return 0, err
	}
	return st.Repo.CountDeals(ctx, tf)
}

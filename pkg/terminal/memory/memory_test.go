package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

const fixturesYAML = `
terminal:
  build: 4150
  company: Demo Broker Ltd
  name: Demo Terminal
  account:
    login: 5001
    currency: USD
    balance: 10000
symbols:
  - symbol: EURUSD
    digits: 5
    point: 0.00001
    bid: 1.1
    ask: 1.1002
    trade_mode: 4
    selected: true
  - symbol: GBPUSD
    digits: 5
    point: 0.00001
history_orders:
  - ticket: 10
    time_setup: 1000
    symbol: EURUSD
    state: 4
  - ticket: 11
    time_setup: 2000
    symbol: GBPUSD
deals:
  - ticket: 100
    time: 1500
    symbol: EURUSD
    profit: 12.5
`

func newFixtureTerminal(t *testing.T) *Terminal {
	t.Helper()
	f, err := ParseFixtures([]byte(fixturesYAML))
	if err != nil {
		t.Fatalf("ParseFixtures() error = %v", err)
	}
	term := NewFromFixtures(f)
	if err := term.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return term
}

func TestParseFixtures(t *testing.T) {
	f, err := ParseFixtures([]byte(fixturesYAML))
	if err != nil {
		t.Fatalf("ParseFixtures() error = %v", err)
	}
	if f.Terminal.Build != 4150 || f.Terminal.Account.Login != 5001 {
		t.Errorf("terminal fixture = %+v", f.Terminal)
	}
	if len(f.Symbols) != 2 || !f.Symbols[0].Selected || f.Symbols[0].TradeMode != bridgePkg.TradeModeFull {
		t.Errorf("symbol fixtures = %+v", f.Symbols)
	}
	if f.HistoryOrders[0].State != bridgePkg.OrderStateFilled {
		t.Errorf("history order state = %v", f.HistoryOrders[0].State)
	}
}

func TestParseFixtures_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "Битый yaml", data: "symbols: [\n"},
		{name: "Без имени", data: "symbols:\n  - digits: 5\n"},
		{name: "Дубликат", data: "symbols:\n  - symbol: EURUSD\n  - symbol: EURUSD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFixtures([]byte(tt.data)); err == nil {
				t.Errorf("ParseFixtures() expected error")
			}
		})
	}
}

func TestTerminal_NotConnected(t *testing.T) {
	term := New()
	if _, err := term.Symbols(context.Background()); !errors.Is(err, bridgePkg.ErrNotConnected) {
		t.Errorf("Symbols() error = %v, want ErrNotConnected", err)
	}
}

func TestTerminal_Symbols(t *testing.T) {
	term := newFixtureTerminal(t)
	got, err := term.Symbols(context.Background())
	if err != nil {
		t.Fatalf("Symbols() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"EURUSD", "GBPUSD"}) {
		t.Errorf("Symbols() = %v", got)
	}
}

func TestTerminal_SymbolInfo(t *testing.T) {
	term := newFixtureTerminal(t)
	ctx := context.Background()

	if _, err := term.SymbolInfo(ctx, "GBPUSD"); !errors.Is(err, bridgePkg.ErrSymbolNotSelected) {
		t.Errorf("SymbolInfo(GBPUSD) error = %v, want ErrSymbolNotSelected", err)
	}
	if _, err := term.SymbolInfo(ctx, "USDXXX"); !errors.Is(err, bridgePkg.ErrSymbolNotFound) {
		t.Errorf("SymbolInfo(USDXXX) error = %v, want ErrSymbolNotFound", err)
	}
	if err := term.SelectSymbol(ctx, "USDXXX", true); !errors.Is(err, bridgePkg.ErrSymbolNotFound) {
		t.Errorf("SelectSymbol(USDXXX) error = %v, want ErrSymbolNotFound", err)
	}
	if err := term.SelectSymbol(ctx, "GBPUSD", true); err != nil {
		t.Fatalf("SelectSymbol(GBPUSD) error = %v", err)
	}
	info, err := term.SymbolInfo(ctx, "GBPUSD")
	if err != nil || info.Symbol != "GBPUSD" || !info.Select {
		t.Errorf("SymbolInfo(GBPUSD) = %+v, %v", info, err)
	}
}

func TestTerminal_UpdateQuote(t *testing.T) {
	term := newFixtureTerminal(t)
	if term.UpdateQuote(&bridgePkg.Quote{Symbol: "NOPE"}) {
		t.Errorf("UpdateQuote() accepted unknown symbol")
	}
	if !term.UpdateQuote(&bridgePkg.Quote{Symbol: "EURUSD", Bid: 1.2, Ask: 1.20015, Last: 1.2001, Time: 77}) {
		t.Fatalf("UpdateQuote() rejected EURUSD")
	}
	info, err := term.SymbolInfo(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("SymbolInfo() error = %v", err)
	}
	if info.Bid != 1.2 || info.Ask != 1.20015 || info.Spread != 15 || info.Time != 77 {
		t.Errorf("SymbolInfo() after quote = %+v", info)
	}
}

func TestTerminal_HistoryRanges(t *testing.T) {
	term := newFixtureTerminal(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		tf         bridgePkg.TimeFilter
		wantOrders int
		wantDeals  int
	}{
		{name: "Весь диапазон", tf: bridgePkg.TimeFilter{DateFrom: 0, DateTo: 5000}, wantOrders: 2, wantDeals: 1},
		{name: "Границы включительно", tf: bridgePkg.TimeFilter{DateFrom: 1000, DateTo: 1500}, wantOrders: 1, wantDeals: 1},
		{name: "Пусто", tf: bridgePkg.TimeFilter{DateFrom: 2001, DateTo: 3000}, wantOrders: 0, wantDeals: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, _ := term.HistoryOrders(ctx, tt.tf)
			total, _ := term.HistoryOrdersTotal(ctx, tt.tf)
			if len(orders) != tt.wantOrders || total != tt.wantOrders {
				t.Errorf("history orders = %v, total = %v, want %v", len(orders), total, tt.wantOrders)
			}
			deals, _ := term.Deals(ctx, tt.tf)
			dealsTotal, _ := term.DealsTotal(ctx, tt.tf)
			if len(deals) != tt.wantDeals || dealsTotal != tt.wantDeals {
				t.Errorf("deals = %v, total = %v, want %v", len(deals), dealsTotal, tt.wantDeals)
			}
		})
	}
}

func TestTerminal_InjectFailure(t *testing.T) {
	term := newFixtureTerminal(t)
	native := &bridgePkg.NativeError{Code: -10001, Message: "IPC send failed"}
	term.InjectFailure(native)
	if _, err := term.Orders(context.Background()); err != native {
		t.Errorf("Orders() error = %v, want injected failure", err)
	}
	term.InjectFailure(nil)
	orders, err := term.Orders(context.Background())
	if err != nil || len(orders) != 0 {
		t.Errorf("Orders() = %v, %v, want empty list", orders, err)
	}
}

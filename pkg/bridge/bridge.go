package bridge

import "context"

type TimeFilter struct {
	DateFrom int64 `json:"date_from" yaml:"date_from"`
	DateTo   int64 `json:"date_to" yaml:"date_to"`
}

func (tf *TimeFilter) Contains(t int64) bool {
	return t >= tf.DateFrom && t <= tf.DateTo
}

// Quote is one market tick for a symbol.
type Quote struct {
	Symbol string  `json:"symbol" redis:"-"`
	Bid    float64 `json:"bid" redis:"bid"`
	Ask    float64 `json:"ask" redis:"ask"`
	Last   float64 `json:"last" redis:"last"`
	Time   int64   `json:"time" redis:"time"`
}

type AccountInfo struct {
	Login    int64   `json:"login" yaml:"login"`
	Server   string  `json:"server" yaml:"server"`
	Name     string  `json:"name" yaml:"name"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
	Equity   float64 `json:"equity" yaml:"equity"`
	Leverage int64   `json:"leverage" yaml:"leverage"`
}

type TerminalInfo struct {
	Build        int32       `json:"build" yaml:"build"`
	Connected    bool        `json:"connected" yaml:"connected"`
	TradeAllowed bool        `json:"trade_allowed" yaml:"trade_allowed"`
	Company      string      `json:"company" yaml:"company"`
	Name         string      `json:"name" yaml:"name"`
	Language     string      `json:"language" yaml:"language"`
	Path         string      `json:"path" yaml:"path"`
	DataPath     string      `json:"data_path" yaml:"data_path"`
	PingLast     int64       `json:"ping_last" yaml:"ping_last"`
	Account      AccountInfo `json:"account" yaml:"account"`
}

type SymbolInfo struct {
	Symbol            string    `json:"symbol" yaml:"symbol"`
	Description       string    `json:"description" yaml:"description"`
	Path              string    `json:"path" yaml:"path"`
	CurrencyBase      string    `json:"currency_base" yaml:"currency_base"`
	CurrencyProfit    string    `json:"currency_profit" yaml:"currency_profit"`
	Bid               float64   `json:"bid" yaml:"bid"`
	Ask               float64   `json:"ask" yaml:"ask"`
	Last              float64   `json:"last" yaml:"last"`
	Point             float64   `json:"point" yaml:"point"`
	Digits            int32     `json:"digits" yaml:"digits"`
	Spread            int32     `json:"spread" yaml:"spread"`
	SpreadFloat       bool      `json:"spread_float" yaml:"spread_float"`
	TradeMode         TradeMode `json:"trade_mode" yaml:"trade_mode"`
	TradeContractSize float64   `json:"trade_contract_size" yaml:"trade_contract_size"`
	TradeStopsLevel   int32     `json:"trade_stops_level" yaml:"trade_stops_level"`
	VolumeMin         float64   `json:"volume_min" yaml:"volume_min"`
	VolumeMax         float64   `json:"volume_max" yaml:"volume_max"`
	VolumeStep        float64   `json:"volume_step" yaml:"volume_step"`
	SwapLong          float64   `json:"swap_long" yaml:"swap_long"`
	SwapShort         float64   `json:"swap_short" yaml:"swap_short"`
	Select            bool      `json:"select" yaml:"select"`
	Visible           bool      `json:"visible" yaml:"visible"`
	Time              int64     `json:"time" yaml:"time"`
}

// Order is shared by active and history listings. TimeDone, State and
// VolumeInitial are only meaningful for history orders, PriceCurrent only for
// active ones.
type Order struct {
	Ticket        int64      `json:"ticket" yaml:"ticket"`
	TimeSetup     int64      `json:"time_setup" yaml:"time_setup"`
	TimeDone      int64      `json:"time_done,omitempty" yaml:"time_done"`
	Type          OrderType  `json:"type" yaml:"type"`
	State         OrderState `json:"state" yaml:"state"`
	Magic         int64      `json:"magic" yaml:"magic"`
	PositionID    int64      `json:"position_id" yaml:"position_id"`
	VolumeInitial float64    `json:"volume_initial" yaml:"volume_initial"`
	VolumeCurrent float64    `json:"volume_current" yaml:"volume_current"`
	PriceOpen     float64    `json:"price_open" yaml:"price_open"`
	PriceCurrent  float64    `json:"price_current" yaml:"price_current"`
	StopLoss      float64    `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit    float64    `json:"take_profit" yaml:"take_profit"`
	Symbol        string     `json:"symbol" yaml:"symbol"`
	Comment       string     `json:"comment" yaml:"comment"`
}

type Deal struct {
	Ticket     int64     `json:"ticket" yaml:"ticket"`
	Order      int64     `json:"order" yaml:"order"`
	Time       int64     `json:"time" yaml:"time"`
	Type       DealType  `json:"type" yaml:"type"`
	Entry      DealEntry `json:"entry" yaml:"entry"`
	Magic      int64     `json:"magic" yaml:"magic"`
	PositionID int64     `json:"position_id" yaml:"position_id"`
	Volume     float64   `json:"volume" yaml:"volume"`
	Price      float64   `json:"price" yaml:"price"`
	Commission float64   `json:"commission" yaml:"commission"`
	Swap       float64   `json:"swap" yaml:"swap"`
	Fee        float64   `json:"fee" yaml:"fee"`
	Profit     float64   `json:"profit" yaml:"profit"`
	Symbol     string    `json:"symbol" yaml:"symbol"`
	Comment    string    `json:"comment" yaml:"comment"`
}

type Position struct {
	Ticket       int64        `json:"ticket" yaml:"ticket"`
	Time         int64        `json:"time" yaml:"time"`
	Type         PositionType `json:"type" yaml:"type"`
	Magic        int64        `json:"magic" yaml:"magic"`
	Volume       float64      `json:"volume" yaml:"volume"`
	PriceOpen    float64      `json:"price_open" yaml:"price_open"`
	PriceCurrent float64      `json:"price_current" yaml:"price_current"`
	StopLoss     float64      `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit   float64      `json:"take_profit" yaml:"take_profit"`
	Swap         float64      `json:"swap" yaml:"swap"`
	Profit       float64      `json:"profit" yaml:"profit"`
	Symbol       string       `json:"symbol" yaml:"symbol"`
	Comment      string       `json:"comment" yaml:"comment"`
}

// Terminal is the native call surface the bridge wraps. Implementations must be
// safe to call again after a successful Connect (Connect is idempotent) and must
// report ErrSymbolNotFound / ErrSymbolNotSelected for symbol lookups.
type Terminal interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Info(ctx context.Context) (*TerminalInfo, error)

	Symbols(ctx context.Context) ([]string, error)
	SelectSymbol(ctx context.Context, symbol string, enable bool) error
	SymbolInfo(ctx context.Context, symbol string) (*SymbolInfo, error)

	Positions(ctx context.Context) ([]*Position, error)
	PositionsTotal(ctx context.Context) (int, error)
	Orders(ctx context.Context) ([]*Order, error)

	HistoryOrders(ctx context.Context, tf TimeFilter) ([]*Order, error)
	HistoryOrdersTotal(ctx context.Context, tf TimeFilter) (int, error)
	Deals(ctx context.Context, tf TimeFilter) ([]*Deal, error)
	DealsTotal(ctx context.Context, tf TimeFilter) (int, error)
}

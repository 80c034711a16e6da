package delivery

import (
	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

// Messages travel as JSON with snake_case field names. Every response embeds
// an ErrorInfo; getters are nil-safe so an absent error reads as success.

type ConnectResponse struct {
	Success bool                 `json:"success"`
	Error   *bridgePkg.ErrorInfo `json:"error,omitempty"`
}

func (r *ConnectResponse) GetSuccess() bool {
	return r != nil && r.Success
}

func (r *ConnectResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *ConnectResponse) ResultCode() int32 { return r.GetError().GetCode() }

type TerminalInfoRequest struct{}

type TerminalInfoResponse struct {
	TerminalInfo *bridgePkg.TerminalInfo `json:"terminal_info,omitempty"`
	Error        *bridgePkg.ErrorInfo    `json:"error,omitempty"`
}

func (r *TerminalInfoResponse) GetTerminalInfo() *bridgePkg.TerminalInfo {
	if r == nil {
		return nil
	}
	return r.TerminalInfo
}

func (r *TerminalInfoResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *TerminalInfoResponse) ResultCode() int32 { return r.GetError().GetCode() }

type SymbolsGetRequest struct{}

type SymbolsGetResponse struct {
	Symbols []string             `json:"symbols"`
	Error   *bridgePkg.ErrorInfo `json:"error,omitempty"`
}

func (r *SymbolsGetResponse) GetSymbols() []string {
	if r == nil {
		return nil
	}
	return r.Symbols
}

func (r *SymbolsGetResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *SymbolsGetResponse) ResultCode() int32 { return r.GetError().GetCode() }

type SymbolSelectRequest struct {
	Symbol string `json:"symbol"`
	Enable bool   `json:"enable"`
}

type SymbolSelectResponse struct {
	Success bool                 `json:"success"`
	Error   *bridgePkg.ErrorInfo `json:"error,omitempty"`
}

func (r *SymbolSelectResponse) GetSuccess() bool {
	return r != nil && r.Success
}

func (r *SymbolSelectResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *SymbolSelectResponse) ResultCode() int32 { return r.GetError().GetCode() }

type SymbolInfoRequest struct {
	Symbol string `json:"symbol"`
}

type SymbolInfoResponse struct {
	SymbolInfo *bridgePkg.SymbolInfo `json:"symbol_info,omitempty"`
	Error      *bridgePkg.ErrorInfo  `json:"error,omitempty"`
}

func (r *SymbolInfoResponse) GetSymbolInfo() *bridgePkg.SymbolInfo {
	if r == nil {
		return nil
	}
	return r.SymbolInfo
}

func (r *SymbolInfoResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *SymbolInfoResponse) ResultCode() int32 { return r.GetError().GetCode() }

type PositionsTotalRequest struct{}

// TotalResponse answers every count-only query.
type TotalResponse struct {
	Total int64                `json:"total"`
	Error *bridgePkg.ErrorInfo `json:"error,omitempty"`
}

func (r *TotalResponse) GetTotal() int64 {
	if r == nil {
		return 0
	}
	return r.Total
}

func (r *TotalResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *TotalResponse) ResultCode() int32 { return r.GetError().GetCode() }

type PositionsRequest struct {
	Group string `json:"group,omitempty"`
}

type PositionsResponse struct {
	Positions []*bridgePkg.Position `json:"positions"`
	Error     *bridgePkg.ErrorInfo  `json:"error,omitempty"`
}

func (r *PositionsResponse) GetPositions() []*bridgePkg.Position {
	if r == nil {
		return nil
	}
	return r.Positions
}

func (r *PositionsResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *PositionsResponse) ResultCode() int32 { return r.GetError().GetCode() }

type OrdersGetRequest struct {
	Group string `json:"group,omitempty"`
}

type OrdersTotalRequest struct{}

type OrdersResponse struct {
	Orders []*bridgePkg.Order   `json:"orders"`
	Error  *bridgePkg.ErrorInfo `json:"error,omitempty"`
}

func (r *OrdersResponse) GetOrders() []*bridgePkg.Order {
	if r == nil {
		return nil
	}
	return r.Orders
}

func (r *OrdersResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *OrdersResponse) ResultCode() int32 { return r.GetError().GetCode() }

type DealsRequest struct {
	TimeFilter *bridgePkg.TimeFilter `json:"time_filter,omitempty"`
	Group      string                `json:"group,omitempty"`
}

type DealsResponse struct {
	Deals []*bridgePkg.Deal    `json:"deals"`
	Error *bridgePkg.ErrorInfo `json:"error,omitempty"`
}

func (r *DealsResponse) GetDeals() []*bridgePkg.Deal {
	if r == nil {
		return nil
	}
	return r.Deals
}

func (r *DealsResponse) GetError() *bridgePkg.ErrorInfo {
	if r == nil {
		return nil
	}
	return r.Error
}

func (r *DealsResponse) ResultCode() int32 { return r.GetError().GetCode() }

// RangeTotalRequest carries the flat date range of the count-only history
// queries.
type RangeTotalRequest struct {
	DateFrom int64 `json:"date_from"`
	DateTo   int64 `json:"date_to"`
}

type DealsTotalRequest = RangeTotalRequest

type HistoryOrdersTotalRequest = RangeTotalRequest

type HistoryOrdersRequest struct {
	TimeFilter *bridgePkg.TimeFilter `json:"time_filter,omitempty"`
	Group      string                `json:"group,omitempty"`
}

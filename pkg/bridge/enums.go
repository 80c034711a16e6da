package bridge

import "strconv"

type OrderType int32

const (
	OrderTypeBuy OrderType = iota
	OrderTypeSell
	OrderTypeBuyLimit
	OrderTypeSellLimit
	OrderTypeBuyStop
	OrderTypeSellStop
	OrderTypeBuyStopLimit
	OrderTypeSellStopLimit
	OrderTypeCloseBy
)

var orderTypeNames = []string{"buy", "sell", "buy_limit", "sell_limit", "buy_stop",
	"sell_stop", "buy_stop_limit", "sell_stop_limit", "close_by"}

func (t OrderType) String() string {
	return enumName(orderTypeNames, int32(t))
}

type OrderState int32

const (
	OrderStateStarted OrderState = iota
	OrderStatePlaced
	OrderStateCanceled
	OrderStatePartial
	OrderStateFilled
	OrderStateRejected
	OrderStateExpired
)

var orderStateNames = []string{"started", "placed", "canceled", "partial", "filled", "rejected", "expired"}

func (s OrderState) String() string {
	return enumName(orderStateNames, int32(s))
}

type DealType int32

const (
	DealTypeBuy DealType = iota
	DealTypeSell
	DealTypeBalance
	DealTypeCredit
	DealTypeCharge
	DealTypeCorrection
	DealTypeBonus
	DealTypeCommission
)

var dealTypeNames = []string{"buy", "sell", "balance", "credit", "charge", "correction", "bonus", "commission"}

func (t DealType) String() string {
	return enumName(dealTypeNames, int32(t))
}

type DealEntry int32

const (
	DealEntryIn DealEntry = iota
	DealEntryOut
	DealEntryInOut
	DealEntryOutBy
)

var dealEntryNames = []string{"in", "out", "inout", "out_by"}

func (e DealEntry) String() string {
	return enumName(dealEntryNames, int32(e))
}

type PositionType int32

const (
	PositionTypeBuy PositionType = iota
	PositionTypeSell
)

func (t PositionType) String() string {
	return enumName([]string{"buy", "sell"}, int32(t))
}

type TradeMode int32

const (
	TradeModeDisabled TradeMode = iota
	TradeModeLongOnly
	TradeModeShortOnly
	TradeModeCloseOnly
	TradeModeFull
)

var tradeModeNames = []string{"disabled", "longonly", "shortonly", "closeonly", "full"}

func (m TradeMode) String() string {
	return enumName(tradeModeNames, int32(m))
}

func enumName(names []string, v int32) string {
	if v < 0 || int(v) >= len(names) {
		return strconv.Itoa(int(v))
	}
	return names[v]
}

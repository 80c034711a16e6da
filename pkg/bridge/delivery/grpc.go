package delivery

import (
	"context"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	sessionUsecasePkg "github.com/KeynihAV/mtbridge/pkg/bridge/usecase"
	"github.com/KeynihAV/mtbridge/pkg/logging"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
)

type MyBridgeServer struct {
	Session *sessionUsecasePkg.Session
	Logger  *logging.Logger
}

func NewBridgeServer(session *sessionUsecasePkg.Session, logger *logging.Logger) *MyBridgeServer {
	return &MyBridgeServer{Session: session, Logger: logger}
}

// result converts err into the response envelope and logs failures.
func (bs *MyBridgeServer) result(op string, err error) *bridgePkg.ErrorInfo {
	info := bridgePkg.ToErrorInfo(err)
	if err != nil {
		bs.Logger.Zap.Error(op,
			zap.String("logger", "grpcServer"),
			zap.Int32("code", info.Code),
			zap.String("err", err.Error()),
		)
	}
	return info
}

func (bs *MyBridgeServer) Connect(ctx context.Context, _ *emptypb.Empty) (*ConnectResponse, error) {
	err := bs.Session.Connect(ctx)
	return &ConnectResponse{Success: err == nil, Error: bs.result("connect", err)}, nil
}

func (bs *MyBridgeServer) Disconnect(ctx context.Context, _ *emptypb.Empty) (*ConnectResponse, error) {
	err := bs.Session.Disconnect(ctx)
	return &ConnectResponse{Success: err == nil, Error: bs.result("disconnect", err)}, nil
}

func (bs *MyBridgeServer) GetTerminalInfo(ctx context.Context, _ *TerminalInfoRequest) (*TerminalInfoResponse, error) {
	info, err := bs.Session.TerminalInfo(ctx)
	return &TerminalInfoResponse{TerminalInfo: info, Error: bs.result("terminal info", err)}, nil
}

func (bs *MyBridgeServer) GetSymbols(ctx context.Context, _ *SymbolsGetRequest) (*SymbolsGetResponse, error) {
	symbols, err := bs.Session.Symbols(ctx)
	if symbols == nil {
		symbols = []string{}
	}
	return &SymbolsGetResponse{Symbols: symbols, Error: bs.result("get symbols", err)}, nil
}

func (bs *MyBridgeServer) SelectSymbol(ctx context.Context, in *SymbolSelectRequest) (*SymbolSelectResponse, error) {
	err := bs.Session.SelectSymbol(ctx, in.Symbol, in.Enable)
	return &SymbolSelectResponse{Success: err == nil, Error: bs.result("select symbol", err)}, nil
}

func (bs *MyBridgeServer) GetSymbolInfo(ctx context.Context, in *SymbolInfoRequest) (*SymbolInfoResponse, error) {
	info, err := bs.Session.SymbolInfo(ctx, in.Symbol)
	return &SymbolInfoResponse{SymbolInfo: info, Error: bs.result("symbol info", err)}, nil
}

func (bs *MyBridgeServer) GetPositionsTotal(ctx context.Context, _ *PositionsTotalRequest) (*TotalResponse, error) {
	total, err := bs.Session.PositionsTotal(ctx)
	return &TotalResponse{Total: int64(total), Error: bs.result("positions total", err)}, nil
}

func (bs *MyBridgeServer) GetPositions(ctx context.Context, in *PositionsRequest) (*PositionsResponse, error) {
	positions, err := bs.Session.Positions(ctx, in.Group)
	if positions == nil {
		positions = []*bridgePkg.Position{}
	}
	return &PositionsResponse{Positions: positions, Error: bs.result("get positions", err)}, nil
}

func (bs *MyBridgeServer) GetOrders(ctx context.Context, in *OrdersGetRequest) (*OrdersResponse, error) {
	orders, err := bs.Session.Orders(ctx, in.Group)
	return ordersResponse(orders, bs.result("get orders", err)), nil
}

func (bs *MyBridgeServer) GetOrdersTotal(ctx context.Context, _ *OrdersTotalRequest) (*TotalResponse, error) {
	total, err := bs.Session.OrdersTotal(ctx)
	return &TotalResponse{Total: int64(total), Error: bs.result("orders total", err)}, nil
}

func (bs *MyBridgeServer) GetDeals(ctx context.Context, in *DealsRequest) (*DealsResponse, error) {
	deals, err := bs.Session.Deals(ctx, in.TimeFilter, in.Group)
	if deals == nil {
		deals = []*bridgePkg.Deal{}
	}
	return &DealsResponse{Deals: deals, Error: bs.result("get deals", err)}, nil
}

func (bs *MyBridgeServer) GetDealsTotal(ctx context.Context, in *DealsTotalRequest) (*TotalResponse, error) {
	total, err := bs.Session.DealsTotal(ctx, &bridgePkg.TimeFilter{DateFrom: in.DateFrom, DateTo: in.DateTo})
	return &TotalResponse{Total: int64(total), Error: bs.result("deals total", err)}, nil
}

func (bs *MyBridgeServer) GetHistoryOrdersTotal(ctx context.Context, in *HistoryOrdersTotalRequest) (*TotalResponse, error) {
	total, err := bs.Session.HistoryOrdersTotal(ctx, &bridgePkg.TimeFilter{DateFrom: in.DateFrom, DateTo: in.DateTo})
	return &TotalResponse{Total: int64(total), Error: bs.result("history orders total", err)}, nil
}

func (bs *MyBridgeServer) GetHistoryOrders(ctx context.Context, in *HistoryOrdersRequest) (*OrdersResponse, error) {
	orders, err := bs.Session.HistoryOrders(ctx, in.TimeFilter, in.Group)
	return ordersResponse(orders, bs.result("history orders", err)), nil
}

func ordersResponse(orders []*bridgePkg.Order, info *bridgePkg.ErrorInfo) *OrdersResponse {
	if orders == nil {
		orders = []*bridgePkg.Order{}
	}
	return &OrdersResponse{Orders: orders, Error: info}
}

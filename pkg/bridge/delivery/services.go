package delivery

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const servicePrefix = "mt5bridge."

const (
	ConnectionServiceName    = servicePrefix + "MetaTraderService"
	TerminalInfoServiceName  = servicePrefix + "TerminalInfoService"
	SymbolsServiceName       = servicePrefix + "SymbolsService"
	SymbolInfoServiceName    = servicePrefix + "SymbolInfoService"
	PositionsServiceName     = servicePrefix + "PositionsService"
	OrdersServiceName        = servicePrefix + "OrdersService"
	TradeHistoryServiceName  = servicePrefix + "TradeHistoryService"
	HistoryOrdersServiceName = servicePrefix + "HistoryOrdersService"
)

// ServiceNames lists every bridge service, used for health reporting.
var ServiceNames = []string{
	ConnectionServiceName,
	TerminalInfoServiceName,
	SymbolsServiceName,
	SymbolInfoServiceName,
	PositionsServiceName,
	OrdersServiceName,
	TradeHistoryServiceName,
	HistoryOrdersServiceName,
}

type ConnectionServer interface {
	Connect(context.Context, *emptypb.Empty) (*ConnectResponse, error)
	Disconnect(context.Context, *emptypb.Empty) (*ConnectResponse, error)
}

type TerminalInfoServer interface {
	GetTerminalInfo(context.Context, *TerminalInfoRequest) (*TerminalInfoResponse, error)
}

type SymbolsServer interface {
	GetSymbols(context.Context, *SymbolsGetRequest) (*SymbolsGetResponse, error)
	SelectSymbol(context.Context, *SymbolSelectRequest) (*SymbolSelectResponse, error)
}

type SymbolInfoServer interface {
	GetSymbolInfo(context.Context, *SymbolInfoRequest) (*SymbolInfoResponse, error)
}

type PositionsServer interface {
	GetPositionsTotal(context.Context, *PositionsTotalRequest) (*TotalResponse, error)
	GetPositions(context.Context, *PositionsRequest) (*PositionsResponse, error)
}

type OrdersServer interface {
	GetOrders(context.Context, *OrdersGetRequest) (*OrdersResponse, error)
	GetOrdersTotal(context.Context, *OrdersTotalRequest) (*TotalResponse, error)
}

type TradeHistoryServer interface {
	GetDeals(context.Context, *DealsRequest) (*DealsResponse, error)
	GetDealsTotal(context.Context, *DealsTotalRequest) (*TotalResponse, error)
}

type HistoryOrdersServer interface {
	GetHistoryOrdersTotal(context.Context, *HistoryOrdersTotalRequest) (*TotalResponse, error)
	GetHistoryOrders(context.Context, *HistoryOrdersRequest) (*OrdersResponse, error)
}

// BridgeServer is implemented by a single value serving every bridge service.
type BridgeServer interface {
	ConnectionServer
	TerminalInfoServer
	SymbolsServer
	SymbolInfoServer
	PositionsServer
	OrdersServer
	TradeHistoryServer
	HistoryOrdersServer
}

func unary[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func method[S any, Req any, Resp any](service, name string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler:    unary(fullMethod(service, name), call),
	}
}

func fullMethod(service, name string) string {
	return "/" + service + "/" + name
}

var ConnectionServiceDesc = grpc.ServiceDesc{
	ServiceName: ConnectionServiceName,
	HandlerType: (*ConnectionServer)(nil),
	Methods: []grpc.MethodDesc{
		method(ConnectionServiceName, "Connect", ConnectionServer.Connect),
		method(ConnectionServiceName, "Disconnect", ConnectionServer.Disconnect),
	},
	Metadata: "common.proto",
}

var TerminalInfoServiceDesc = grpc.ServiceDesc{
	ServiceName: TerminalInfoServiceName,
	HandlerType: (*TerminalInfoServer)(nil),
	Methods: []grpc.MethodDesc{
		method(TerminalInfoServiceName, "GetTerminalInfo", TerminalInfoServer.GetTerminalInfo),
	},
	Metadata: "terminal.proto",
}

var SymbolsServiceDesc = grpc.ServiceDesc{
	ServiceName: SymbolsServiceName,
	HandlerType: (*SymbolsServer)(nil),
	Methods: []grpc.MethodDesc{
		method(SymbolsServiceName, "GetSymbols", SymbolsServer.GetSymbols),
		method(SymbolsServiceName, "SelectSymbol", SymbolsServer.SelectSymbol),
	},
	Metadata: "symbols.proto",
}

var SymbolInfoServiceDesc = grpc.ServiceDesc{
	ServiceName: SymbolInfoServiceName,
	HandlerType: (*SymbolInfoServer)(nil),
	Methods: []grpc.MethodDesc{
		method(SymbolInfoServiceName, "GetSymbolInfo", SymbolInfoServer.GetSymbolInfo),
	},
	Metadata: "symbol_info.proto",
}

var PositionsServiceDesc = grpc.ServiceDesc{
	ServiceName: PositionsServiceName,
	HandlerType: (*PositionsServer)(nil),
	Methods: []grpc.MethodDesc{
		method(PositionsServiceName, "GetPositionsTotal", PositionsServer.GetPositionsTotal),
		method(PositionsServiceName, "GetPositions", PositionsServer.GetPositions),
	},
	Metadata: "position.proto",
}

var OrdersServiceDesc = grpc.ServiceDesc{
	ServiceName: OrdersServiceName,
	HandlerType: (*OrdersServer)(nil),
	Methods: []grpc.MethodDesc{
		method(OrdersServiceName, "GetOrders", OrdersServer.GetOrders),
		method(OrdersServiceName, "GetOrdersTotal", OrdersServer.GetOrdersTotal),
	},
	Metadata: "order.proto",
}

var TradeHistoryServiceDesc = grpc.ServiceDesc{
	ServiceName: TradeHistoryServiceName,
	HandlerType: (*TradeHistoryServer)(nil),
	Methods: []grpc.MethodDesc{
		method(TradeHistoryServiceName, "GetDeals", TradeHistoryServer.GetDeals),
		method(TradeHistoryServiceName, "GetDealsTotal", TradeHistoryServer.GetDealsTotal),
	},
	Metadata: "deal.proto",
}

var HistoryOrdersServiceDesc = grpc.ServiceDesc{
	ServiceName: HistoryOrdersServiceName,
	HandlerType: (*HistoryOrdersServer)(nil),
	Methods: []grpc.MethodDesc{
		method(HistoryOrdersServiceName, "GetHistoryOrdersTotal", HistoryOrdersServer.GetHistoryOrdersTotal),
		method(HistoryOrdersServiceName, "GetHistoryOrders", HistoryOrdersServer.GetHistoryOrders),
	},
	Metadata: "history_orders.proto",
}

func RegisterBridgeServer(s grpc.ServiceRegistrar, srv BridgeServer) {
	s.RegisterService(&ConnectionServiceDesc, srv)
	s.RegisterService(&TerminalInfoServiceDesc, srv)
	s.RegisterService(&SymbolsServiceDesc, srv)
	s.RegisterService(&SymbolInfoServiceDesc, srv)
	s.RegisterService(&PositionsServiceDesc, srv)
	s.RegisterService(&OrdersServiceDesc, srv)
	s.RegisterService(&TradeHistoryServiceDesc, srv)
	s.RegisterService(&HistoryOrdersServiceDesc, srv)
}

// BridgeClient bundles the client side of all bridge services on one
// connection.
type BridgeClient struct {
	cc grpc.ClientConnInterface
}

func NewBridgeClient(cc grpc.ClientConnInterface) *BridgeClient {
	return &BridgeClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BridgeClient) Connect(ctx context.Context, opts ...grpc.CallOption) (*ConnectResponse, error) {
	return invoke[ConnectResponse](ctx, c.cc, fullMethod(ConnectionServiceName, "Connect"), &emptypb.Empty{}, opts)
}

func (c *BridgeClient) Disconnect(ctx context.Context, opts ...grpc.CallOption) (*ConnectResponse, error) {
	return invoke[ConnectResponse](ctx, c.cc, fullMethod(ConnectionServiceName, "Disconnect"), &emptypb.Empty{}, opts)
}

func (c *BridgeClient) GetTerminalInfo(ctx context.Context, in *TerminalInfoRequest, opts ...grpc.CallOption) (*TerminalInfoResponse, error) {
	return invoke[TerminalInfoResponse](ctx, c.cc, fullMethod(TerminalInfoServiceName, "GetTerminalInfo"), in, opts)
}

func (c *BridgeClient) GetSymbols(ctx context.Context, in *SymbolsGetRequest, opts ...grpc.CallOption) (*SymbolsGetResponse, error) {
	return invoke[SymbolsGetResponse](ctx, c.cc, fullMethod(SymbolsServiceName, "GetSymbols"), in, opts)
}

func (c *BridgeClient) SelectSymbol(ctx context.Context, in *SymbolSelectRequest, opts ...grpc.CallOption) (*SymbolSelectResponse, error) {
	return invoke[SymbolSelectResponse](ctx, c.cc, fullMethod(SymbolsServiceName, "SelectSymbol"), in, opts)
}

func (c *BridgeClient) GetSymbolInfo(ctx context.Context, in *SymbolInfoRequest, opts ...grpc.CallOption) (*SymbolInfoResponse, error) {
	return invoke[SymbolInfoResponse](ctx, c.cc, fullMethod(SymbolInfoServiceName, "GetSymbolInfo"), in, opts)
}

func (c *BridgeClient) GetPositionsTotal(ctx context.Context, in *PositionsTotalRequest, opts ...grpc.CallOption) (*TotalResponse, error) {
	return invoke[TotalResponse](ctx, c.cc, fullMethod(PositionsServiceName, "GetPositionsTotal"), in, opts)
}

func (c *BridgeClient) GetPositions(ctx context.Context, in *PositionsRequest, opts ...grpc.CallOption) (*PositionsResponse, error) {
	return invoke[PositionsResponse](ctx, c.cc, fullMethod(PositionsServiceName, "GetPositions"), in, opts)
}

func (c *BridgeClient) GetOrders(ctx context.Context, in *OrdersGetRequest, opts ...grpc.CallOption) (*OrdersResponse, error) {
	return invoke[OrdersResponse](ctx, c.cc, fullMethod(OrdersServiceName, "GetOrders"), in, opts)
}

func (c *BridgeClient) GetOrdersTotal(ctx context.Context, in *OrdersTotalRequest, opts ...grpc.CallOption) (*TotalResponse, error) {
	return invoke[TotalResponse](ctx, c.cc, fullMethod(OrdersServiceName, "GetOrdersTotal"), in, opts)
}

func (c *BridgeClient) GetDeals(ctx context.Context, in *DealsRequest, opts ...grpc.CallOption) (*DealsResponse, error) {
	return invoke[DealsResponse](ctx, c.cc, fullMethod(TradeHistoryServiceName, "GetDeals"), in, opts)
}

func (c *BridgeClient) GetDealsTotal(ctx context.Context, in *DealsTotalRequest, opts ...grpc.CallOption) (*TotalResponse, error) {
	return invoke[TotalResponse](ctx, c.cc, fullMethod(TradeHistoryServiceName, "GetDealsTotal"), in, opts)
}

func (c *BridgeClient) GetHistoryOrdersTotal(ctx context.Context, in *HistoryOrdersTotalRequest, opts ...grpc.CallOption) (*TotalResponse, error) {
	return invoke[TotalResponse](ctx, c.cc, fullMethod(HistoryOrdersServiceName, "GetHistoryOrdersTotal"), in, opts)
}

func (c *BridgeClient) GetHistoryOrders(ctx context.Context, in *HistoryOrdersRequest, opts ...grpc.CallOption) (*OrdersResponse, error) {
	return invoke[OrdersResponse](ctx, c.cc, fullMethod(HistoryOrdersServiceName, "GetHistoryOrders"), in, opts)
}

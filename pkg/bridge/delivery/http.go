package delivery

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	"github.com/KeynihAV/mtbridge/pkg/common"
	"github.com/KeynihAV/mtbridge/pkg/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/protobuf/types/known/emptypb"
)

// BridgeHandler exposes the bridge services as a JSON API. Bodies are the
// same response messages the gRPC services return.
type BridgeHandler struct {
	Server BridgeServer
	Auth   TokenChecker
}

func NewRouter(bh *BridgeHandler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(metrics.TimeTrackingMiddleware)
	if bh.Auth != nil {
		api.Use(bh.authMiddleware)
	}
	api.HandleFunc("/connect", bh.Connect).Methods(http.MethodPost)
	api.HandleFunc("/disconnect", bh.Disconnect).Methods(http.MethodPost)
	api.HandleFunc("/terminal", bh.TerminalInfo).Methods(http.MethodGet)
	api.HandleFunc("/symbols", bh.Symbols).Methods(http.MethodGet)
	api.HandleFunc("/symbols/{symbol}/select", bh.SelectSymbol).Methods(http.MethodPost)
	api.HandleFunc("/symbols/{symbol}", bh.SymbolInfo).Methods(http.MethodGet)
	api.HandleFunc("/positions", bh.Positions).Methods(http.MethodGet)
	api.HandleFunc("/positions/total", bh.PositionsTotal).Methods(http.MethodGet)
	api.HandleFunc("/orders", bh.Orders).Methods(http.MethodGet)
	api.HandleFunc("/orders/total", bh.OrdersTotal).Methods(http.MethodGet)
	api.HandleFunc("/deals", bh.Deals).Methods(http.MethodGet)
	api.HandleFunc("/deals/total", bh.DealsTotal).Methods(http.MethodGet)
	api.HandleFunc("/history/orders", bh.HistoryOrders).Methods(http.MethodGet)
	api.HandleFunc("/history/orders/total", bh.HistoryOrdersTotal).Methods(http.MethodGet)
	return r
}

func (bh *BridgeHandler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := bh.Auth.CheckToken(r.Header.Get("Authorization")); err != nil {
			common.WriteError(r.Context(), w, http.StatusUnauthorized, err, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// respond writes the message or a 500 when the server itself failed.
func respond(w http.ResponseWriter, ctx context.Context, method string, resp metrics.ResultCoder, err error) {
	if err != nil {
		common.WriteError(ctx, w, http.StatusInternalServerError, err, err.Error())
		return
	}
	metrics.ObserveResult(method, resp.ResultCode())
	common.WriteBody(ctx, w, resp)
}

func (bh *BridgeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.Connect(r.Context(), &emptypb.Empty{})
	respond(w, r.Context(), "http.Connect", resp, err)
}

func (bh *BridgeHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.Disconnect(r.Context(), &emptypb.Empty{})
	respond(w, r.Context(), "http.Disconnect", resp, err)
}

func (bh *BridgeHandler) TerminalInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetTerminalInfo(r.Context(), &TerminalInfoRequest{})
	respond(w, r.Context(), "http.GetTerminalInfo", resp, err)
}

func (bh *BridgeHandler) Symbols(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetSymbols(r.Context(), &SymbolsGetRequest{})
	respond(w, r.Context(), "http.GetSymbols", resp, err)
}

func (bh *BridgeHandler) SelectSymbol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	enable := true
	if raw := r.URL.Query().Get("enable"); raw != "" {
		var err error
		enable, err = strconv.ParseBool(raw)
		if err != nil {
			common.WriteError(ctx, w, http.StatusBadRequest, err, "cannot parse enable")
			return
		}
	}
	resp, err := bh.Server.SelectSymbol(ctx, &SymbolSelectRequest{Symbol: mux.Vars(r)["symbol"], Enable: enable})
	respond(w, ctx, "http.SelectSymbol", resp, err)
}

func (bh *BridgeHandler) SymbolInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetSymbolInfo(r.Context(), &SymbolInfoRequest{Symbol: mux.Vars(r)["symbol"]})
	respond(w, r.Context(), "http.GetSymbolInfo", resp, err)
}

func (bh *BridgeHandler) PositionsTotal(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetPositionsTotal(r.Context(), &PositionsTotalRequest{})
	respond(w, r.Context(), "http.GetPositionsTotal", resp, err)
}

func (bh *BridgeHandler) Positions(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetPositions(r.Context(), &PositionsRequest{Group: r.URL.Query().Get("group")})
	respond(w, r.Context(), "http.GetPositions", resp, err)
}

func (bh *BridgeHandler) Orders(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetOrders(r.Context(), &OrdersGetRequest{Group: r.URL.Query().Get("group")})
	respond(w, r.Context(), "http.GetOrders", resp, err)
}

func (bh *BridgeHandler) OrdersTotal(w http.ResponseWriter, r *http.Request) {
	resp, err := bh.Server.GetOrdersTotal(r.Context(), &OrdersTotalRequest{})
	respond(w, r.Context(), "http.GetOrdersTotal", resp, err)
}

func (bh *BridgeHandler) Deals(w http.ResponseWriter, r *http.Request) {
	tf, ok := timeFilterFromQuery(w, r)
	if !ok {
		return
	}
	resp, err := bh.Server.GetDeals(r.Context(), &DealsRequest{TimeFilter: tf, Group: r.URL.Query().Get("group")})
	respond(w, r.Context(), "http.GetDeals", resp, err)
}

func (bh *BridgeHandler) DealsTotal(w http.ResponseWriter, r *http.Request) {
	req, ok := rangeFromQuery(w, r)
	if !ok {
		return
	}
	resp, err := bh.Server.GetDealsTotal(r.Context(), req)
	respond(w, r.Context(), "http.GetDealsTotal", resp, err)
}

func (bh *BridgeHandler) HistoryOrders(w http.ResponseWriter, r *http.Request) {
	tf, ok := timeFilterFromQuery(w, r)
	if !ok {
		return
	}
	resp, err := bh.Server.GetHistoryOrders(r.Context(), &HistoryOrdersRequest{TimeFilter: tf, Group: r.URL.Query().Get("group")})
	respond(w, r.Context(), "http.GetHistoryOrders", resp, err)
}

func (bh *BridgeHandler) HistoryOrdersTotal(w http.ResponseWriter, r *http.Request) {
	req, ok := rangeFromQuery(w, r)
	if !ok {
		return
	}
	resp, err := bh.Server.GetHistoryOrdersTotal(r.Context(), req)
	respond(w, r.Context(), "http.GetHistoryOrdersTotal", resp, err)
}

// timeFilterFromQuery reads from/to epoch seconds. Without both the filter is
// nil, which the detail services report as invalid params.
func timeFilterFromQuery(w http.ResponseWriter, r *http.Request) (*bridgePkg.TimeFilter, bool) {
	q := r.URL.Query()
	rawFrom, rawTo := q.Get("from"), q.Get("to")
	if rawFrom == "" || rawTo == "" {
		return nil, true
	}
	from, err := strconv.ParseInt(rawFrom, 10, 64)
	if err != nil {
		common.WriteError(r.Context(), w, http.StatusBadRequest, err, fmt.Sprintf("cannot parse from: %v", rawFrom))
		return nil, false
	}
	to, err := strconv.ParseInt(rawTo, 10, 64)
	if err != nil {
		common.WriteError(r.Context(), w, http.StatusBadRequest, err, fmt.Sprintf("cannot parse to: %v", rawTo))
		return nil, false
	}
	return &bridgePkg.TimeFilter{DateFrom: from, DateTo: to}, true
}

func rangeFromQuery(w http.ResponseWriter, r *http.Request) (*RangeTotalRequest, bool) {
	tf, ok := timeFilterFromQuery(w, r)
	if !ok {
		return nil, false
	}
	if tf == nil {
		common.WriteError(r.Context(), w, http.StatusBadRequest, nil, "from and to are required")
		return nil, false
	}
	return &RangeTotalRequest{DateFrom: tf.DateFrom, DateTo: tf.DateTo}, true
}

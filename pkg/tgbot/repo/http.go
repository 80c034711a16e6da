package repo

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	bridgeDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/bridge/delivery"
	"github.com/KeynihAV/mtbridge/pkg/common"
	"github.com/KeynihAV/mtbridge/pkg/config"
)

// BridgeRepo talks to the bridge HTTP gateway.
type BridgeRepo struct {
	HttpClient *http.Client
	endpoint   string
	token      string
}

func NewBridgeRepo(config *config.Config) *BridgeRepo {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 30 * time.Second,
		}).DialContext,
		MaxIdleConns: 100,
	}

	return &BridgeRepo{
		HttpClient: &http.Client{
			Timeout:   time.Second * 10,
			Transport: transport,
		},
		endpoint: config.Bot.BridgeEndpoint,
		token:    config.Auth.Token,
	}
}

func (br *BridgeRepo) do(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	target := br.endpoint + "/api/v1" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}
	if br.token != "" {
		req.Header.Set("Authorization", "Bearer "+br.token)
	}

	resp, err := br.HttpClient.Do(req)
	if err != nil {
		return err
	}
	return common.ReadBody(resp, out)
}

func rangeQuery(tf *bridgePkg.TimeFilter) url.Values {
	return url.Values{
		"from": {fmt.Sprint(tf.DateFrom)},
		"to":   {fmt.Sprint(tf.DateTo)},
	}
}

func (br *BridgeRepo) Connect(ctx context.Context) (*bridgeDeliveryPkg.ConnectResponse, error) {
	out := &bridgeDeliveryPkg.ConnectResponse{}
	return out, br.do(ctx, http.MethodPost, "/connect", nil, out)
}

func (br *BridgeRepo) GetSymbols(ctx context.Context) (*bridgeDeliveryPkg.SymbolsGetResponse, error) {
	out := &bridgeDeliveryPkg.SymbolsGetResponse{}
	return out, br.do(ctx, http.MethodGet, "/symbols", nil, out)
}

func (br *BridgeRepo) SelectSymbol(ctx context.Context, symbol string, enable bool) (*bridgeDeliveryPkg.SymbolSelectResponse, error) {
	out := &bridgeDeliveryPkg.SymbolSelectResponse{}
	query := url.Values{"enable": {fmt.Sprint(enable)}}
	return out, br.do(ctx, http.MethodPost, "/symbols/"+url.PathEscape(symbol)+"/select", query, out)
}

func (br *BridgeRepo) GetSymbolInfo(ctx context.Context, symbol string) (*bridgeDeliveryPkg.SymbolInfoResponse, error) {
	out := &bridgeDeliveryPkg.SymbolInfoResponse{}
	return out, br.do(ctx, http.MethodGet, "/symbols/"+url.PathEscape(symbol), nil, out)
}

func (br *BridgeRepo) GetPositions(ctx context.Context, group string) (*bridgeDeliveryPkg.PositionsResponse, error) {
	out := &bridgeDeliveryPkg.PositionsResponse{}
	return out, br.do(ctx, http.MethodGet, "/positions", groupQuery(nil, group), out)
}

func (br *BridgeRepo) GetOrders(ctx context.Context, group string) (*bridgeDeliveryPkg.OrdersResponse, error) {
	out := &bridgeDeliveryPkg.OrdersResponse{}
	return out, br.do(ctx, http.MethodGet, "/orders", groupQuery(nil, group), out)
}

func (br *BridgeRepo) GetDeals(ctx context.Context, tf *bridgePkg.TimeFilter, group string) (*bridgeDeliveryPkg.DealsResponse, error) {
	out := &bridgeDeliveryPkg.DealsResponse{}
	return out, br.do(ctx, http.MethodGet, "/deals", groupQuery(rangeQuery(tf), group), out)
}

func (br *BridgeRepo) GetHistoryOrders(ctx context.Context, tf *bridgePkg.TimeFilter, group string) (*bridgeDeliveryPkg.OrdersResponse, error) {
	out := &bridgeDeliveryPkg.OrdersResponse{}
	return out, br.do(ctx, http.MethodGet, "/history/orders", groupQuery(rangeQuery(tf), group), out)
}

func groupQuery(q url.Values, group string) url.Values {
	if group == "" {
		return q
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("group", group)
	return q
}

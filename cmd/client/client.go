package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	bridgeDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/bridge/delivery"
	configPkg "github.com/KeynihAV/mtbridge/pkg/config"
	"github.com/KeynihAV/mtbridge/pkg/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var appName = "client"

func main() {
	logger := logging.New()
	defer logger.Zap.Sync()

	config := &configPkg.Config{}
	err := configPkg.Read(appName, config)
	if err != nil {
		log.Fatalln(err)
	}

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if config.Auth.Token != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bridgeDeliveryPkg.TokenCredentials{Token: config.Auth.Token, Insecure: true}))
	}
	conn, err := grpc.Dial(config.GRPC.Endpoint, opts...)
	if err != nil {
		logger.Zap.Fatal("dial bridge",
			zap.String("logger", "ZAP"),
			zap.String("endpoint", config.GRPC.Endpoint),
			zap.String("err: ", err.Error()))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.Client.Timeout)
	defer cancel()

	err = Walkthrough(ctx, bridgeDeliveryPkg.NewBridgeClient(conn), config, os.Stdout)
	if err != nil {
		logger.Zap.Fatal("walkthrough",
			zap.String("logger", "ZAP"),
			zap.String("err: ", err.Error()))
	}
}

// Walkthrough touches every bridge service once and prints what it got.
// Bridge-level failures are printed; transport failures abort.
func Walkthrough(ctx context.Context, client *bridgeDeliveryPkg.BridgeClient, config *configPkg.Config, w io.Writer) error {
	connected, err := client.Connect(ctx)
	if err != nil {
		return err
	}
	if !connected.GetSuccess() {
		return fmt.Errorf("connect: %v", connected.GetError())
	}

	terminal, err := client.GetTerminalInfo(ctx, &bridgeDeliveryPkg.TerminalInfoRequest{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Terminal Info:\n%+v\n", terminal.GetTerminalInfo())

	symbols, err := client.GetSymbols(ctx, &bridgeDeliveryPkg.SymbolsGetRequest{})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Available symbols:", symbols.GetSymbols())

	if list := symbols.GetSymbols(); len(list) > 0 {
		symbol := list[rand.Intn(len(list))]
		selected, err := client.SelectSymbol(ctx, &bridgeDeliveryPkg.SymbolSelectRequest{Symbol: symbol, Enable: true})
		if err != nil {
			return err
		}
		if selected.GetSuccess() {
			fmt.Fprintf(w, "Selected random symbol: %v\n", symbol)
		} else {
			fmt.Fprintf(w, "Failed to select symbol: %v\n", selected.GetError().GetDescription())
		}
	}

	positionsTotal, err := client.GetPositionsTotal(ctx, &bridgeDeliveryPkg.PositionsTotalRequest{})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Total positions:", positionsTotal.GetTotal())

	symbolInfo, err := client.GetSymbolInfo(ctx, &bridgeDeliveryPkg.SymbolInfoRequest{Symbol: config.Client.InfoSymbol})
	if err != nil {
		return err
	}
	if symbolInfo.GetError().OK() {
		info := symbolInfo.GetSymbolInfo()
		fmt.Fprintf(w, "\n%v Symbol Details:\n", info.Symbol)
		fmt.Fprintf(w, "Bid: %v\nAsk: %v\nPoint: %v\nDigits: %v\nSpread: %v\nTrade mode: %v\n",
			info.Bid, info.Ask, info.Point, info.Digits, info.Spread, info.TradeMode)
		fmt.Fprintf(w, "Volume min: %v\nVolume max: %v\nVolume step: %v\n", info.VolumeMin, info.VolumeMax, info.VolumeStep)
	} else {
		fmt.Fprintf(w, "Failed to get %v info: %v\n", config.Client.InfoSymbol, symbolInfo.GetError().GetMessage())
	}

	orders, err := client.GetOrders(ctx, &bridgeDeliveryPkg.OrdersGetRequest{})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nActive Orders:")
	if orders.GetError().OK() {
		for _, order := range orders.GetOrders() {
			printOrder(w, order)
		}
	} else {
		fmt.Fprintf(w, "Failed to get orders: %v\n", orders.GetError().GetMessage())
	}

	now := time.Now()
	tf := &bridgePkg.TimeFilter{
		DateFrom: now.AddDate(0, 0, -config.Client.HistoryDays).Unix(),
		DateTo:   now.Unix(),
	}

	deals, err := client.GetDeals(ctx, &bridgeDeliveryPkg.DealsRequest{TimeFilter: tf})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nDeals History (last %v days):\n", config.Client.HistoryDays)
	if deals.GetError().OK() {
		for _, deal := range deals.GetDeals() {
			fmt.Fprintf(w, "Deal #%v:\n  Symbol: %v\n  Type: %v\n  Entry: %v\n  Volume: %v\n  Price: %v\n",
				deal.Ticket, deal.Symbol, deal.Type, deal.Entry, deal.Volume, deal.Price)
			fmt.Fprintf(w, "  Profit: %v\n  Commission: %v\n  Swap: %v\n  Comment: %v\n",
				deal.Profit, deal.Commission, deal.Swap, deal.Comment)
		}
	} else {
		fmt.Fprintf(w, "Failed to get deals history: %v\n", deals.GetError().GetMessage())
	}

	historyTotal, err := client.GetHistoryOrdersTotal(ctx, &bridgeDeliveryPkg.HistoryOrdersTotalRequest{DateFrom: tf.DateFrom, DateTo: tf.DateTo})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal orders in history for last %v days: %v\n", config.Client.HistoryDays, historyTotal.GetTotal())

	history, err := client.GetHistoryOrders(ctx, &bridgeDeliveryPkg.HistoryOrdersRequest{TimeFilter: tf, Group: "*"})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nOrders History (last %v days):\n", config.Client.HistoryDays)
	if history.GetError().OK() {
		for _, order := range history.GetOrders() {
			printOrder(w, order)
			fmt.Fprintf(w, "  State: %v\n  Volume Initial: %v\n", order.State, order.VolumeInitial)
		}
	} else {
		fmt.Fprintf(w, "Failed to get orders history: %v\n", history.GetError().GetMessage())
	}
	return nil
}

func printOrder(w io.Writer, order *bridgePkg.Order) {
	fmt.Fprintf(w, "Order #%v:\n  Symbol: %v\n  Type: %v\n  Volume: %v\n  Open Price: %v\n  Current Price: %v\n",
		order.Ticket, order.Symbol, order.Type, order.VolumeCurrent, order.PriceOpen, order.PriceCurrent)
	fmt.Fprintf(w, "  Stop Loss: %v\n  Take Profit: %v\n  Comment: %v\n", order.StopLoss, order.TakeProfit, order.Comment)
}

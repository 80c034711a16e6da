package delivery

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	bridgeDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/bridge/delivery"
	configPkg "github.com/KeynihAV/mtbridge/pkg/config"
	"github.com/KeynihAV/mtbridge/pkg/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

const (
	defaultHistoryDays = 10
	maxHistoryDays     = 365
	timeLayout         = "02 Jan 06 15:04"
)

type BridgeAPI interface {
	Connect(ctx context.Context) (*bridgeDeliveryPkg.ConnectResponse, error)
	GetSymbols(ctx context.Context) (*bridgeDeliveryPkg.SymbolsGetResponse, error)
	SelectSymbol(ctx context.Context, symbol string, enable bool) (*bridgeDeliveryPkg.SymbolSelectResponse, error)
	GetSymbolInfo(ctx context.Context, symbol string) (*bridgeDeliveryPkg.SymbolInfoResponse, error)
	GetPositions(ctx context.Context, group string) (*bridgeDeliveryPkg.PositionsResponse, error)
	GetOrders(ctx context.Context, group string) (*bridgeDeliveryPkg.OrdersResponse, error)
	GetDeals(ctx context.Context, tf *bridgePkg.TimeFilter, group string) (*bridgeDeliveryPkg.DealsResponse, error)
	GetHistoryOrders(ctx context.Context, tf *bridgePkg.TimeFilter, group string) (*bridgeDeliveryPkg.OrdersResponse, error)
}

type BridgeTgBot struct {
	Api         BridgeAPI
	HistoryDays int
	now         func() time.Time
}

func NewBridgeTgBot(api BridgeAPI, historyDays int) *BridgeTgBot {
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}
	return &BridgeTgBot{Api: api, HistoryDays: historyDays, now: time.Now}
}

func StartTgBot(config *configPkg.Config, tgBot *BridgeTgBot, logger *logging.Logger) error {
	go listenWebhook(":"+strconv.Itoa(config.HTTP.Port), logger)

	bot, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		return fmt.Errorf("not create bot api: %v", err)
	}

	resp, err := bot.SetWebhook(tgbotapi.NewWebhook(config.Bot.WebhookURL))
	if err != nil {
		return fmt.Errorf("not set webhook: %v", err)
	}
	if !resp.Ok {
		return fmt.Errorf("error creating webhook. code: %v, description: %v", resp.ErrorCode, resp.Description)
	}

	chUpdates := bot.ListenForWebhook("/")
	for update := range chUpdates {
		ctx, cancel := context.WithTimeout(context.Background(), config.Client.Timeout)

		chatID, cmdTxt, args, ok := commandFromUpdate(update)
		if !ok {
			cancel()
			continue
		}
		var messages []string
		if cmdTxt == "symbols" {
			err = tgBot.sendSymbolsKeyboard(ctx, bot, chatID)
		} else {
			messages, err = tgBot.HandleCommand(ctx, cmdTxt, args)
		}
		cancel()

		if err != nil {
			logger.Zap.Error("processing command",
				zap.String("logger", "tgbot"),
				zap.String("msg", cmdTxt),
				zap.String("err", err.Error()),
			)
			bot.Send(tgbotapi.NewMessage(chatID, err.Error()))
			continue
		}
		for _, msg := range messages {
			bot.Send(tgbotapi.NewMessage(chatID, msg))
		}
	}

	return nil
}

// commandFromUpdate extracts the command to run. A tap on the symbols keyboard
// asks for that symbol's info. Inline-mode callbacks carry no message to
// answer and are skipped.
func commandFromUpdate(update tgbotapi.Update) (chatID int64, cmd, args string, ok bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Message.Chat == nil {
			return 0, "", "", false
		}
		return cq.Message.Chat.ID, "info", cq.Data, true
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return 0, "", "", false
	}
	return msg.Chat.ID, msg.Command(), msg.CommandArguments(), true
}

func listenWebhook(addr string, logger *logging.Logger) {
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		logger.Zap.Fatal("error starting http server",
			zap.String("logger", "tgbot"),
			zap.String("err: ", err.Error()))
	}
}

func (tgBot *BridgeTgBot) sendSymbolsKeyboard(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	symbols, err := tgBot.symbols(ctx)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите инструмент")
	msg.ReplyMarkup = symbolsKeyboard(symbols)
	_, err = bot.Send(msg)
	return err
}

// HandleCommand answers one bot command with the messages to send back.
func (tgBot *BridgeTgBot) HandleCommand(ctx context.Context, cmd, args string) ([]string, error) {
	args = strings.TrimSpace(args)
	switch cmd {
	case "start", "help":
		return []string{helpText}, nil
	case "symbols":
		symbols, err := tgBot.symbols(ctx)
		if err != nil {
			return nil, err
		}
		return []string{strings.Join(symbols, ", ")}, nil
	case "info":
		return tgBot.symbolInfo(ctx, args)
	case "select":
		return tgBot.selectSymbol(ctx, args)
	case "orders":
		return tgBot.orders(ctx)
	case "positions":
		return tgBot.positions(ctx)
	case "deals":
		return tgBot.deals(ctx, args)
	case "history":
		return tgBot.historyOrders(ctx, args)
	}
	return nil, fmt.Errorf("неизвестная команда /%v", cmd)
}

const helpText = `/symbols - список инструментов
/info SYMBOL - параметры и котировка инструмента
/select SYMBOL - добавить инструмент в обзор рынка
/orders - активные ордера
/positions - открытые позиции
/deals [дней] - сделки за период
/history [дней] - исторические ордера за период`

// bridgeError turns a non-success ErrorInfo into an error for the chat.
func bridgeError(e *bridgePkg.ErrorInfo) error {
	if e.OK() {
		return nil
	}
	return fmt.Errorf("ошибка терминала: %v", e)
}

func (tgBot *BridgeTgBot) symbols(ctx context.Context) ([]string, error) {
	resp, err := tgBot.Api.GetSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("get symbols: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	if len(resp.GetSymbols()) == 0 {
		return nil, fmt.Errorf("нет доступных инструментов")
	}
	return resp.GetSymbols(), nil
}

func (tgBot *BridgeTgBot) symbolInfo(ctx context.Context, symbol string) ([]string, error) {
	if symbol == "" {
		return nil, fmt.Errorf("укажите инструмент: /info EURUSD")
	}
	resp, err := tgBot.Api.GetSymbolInfo(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, fmt.Errorf("get symbol info: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	info := resp.GetSymbolInfo()
	return []string{fmt.Sprintf("%v (%v)\nbid: %v, ask: %v, spread: %v\ndigits: %v, объем: %v-%v шаг %v",
		info.Symbol, info.Description, info.Bid, info.Ask, info.Spread,
		info.Digits, info.VolumeMin, info.VolumeMax, info.VolumeStep)}, nil
}

func (tgBot *BridgeTgBot) selectSymbol(ctx context.Context, symbol string) ([]string, error) {
	if symbol == "" {
		return nil, fmt.Errorf("укажите инструмент: /select EURUSD")
	}
	symbol = strings.ToUpper(symbol)
	resp, err := tgBot.Api.SelectSymbol(ctx, symbol, true)
	if err != nil {
		return nil, fmt.Errorf("select symbol: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%v добавлен в обзор рынка", symbol)}, nil
}

func (tgBot *BridgeTgBot) orders(ctx context.Context) ([]string, error) {
	resp, err := tgBot.Api.GetOrders(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("get orders: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	if len(resp.GetOrders()) == 0 {
		return []string{"Активных ордеров нет"}, nil
	}
	messages := make([]string, 0, len(resp.GetOrders()))
	for _, order := range resp.GetOrders() {
		messages = append(messages, fmt.Sprintf("№%v %v %v %v по %v от %v",
			order.Ticket, order.Type, order.Symbol, order.VolumeCurrent, order.PriceOpen, formatTime(order.TimeSetup)))
	}
	return messages, nil
}

func (tgBot *BridgeTgBot) positions(ctx context.Context) ([]string, error) {
	resp, err := tgBot.Api.GetPositions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("get positions: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	if len(resp.GetPositions()) == 0 {
		return []string{"Открытых позиций нет"}, nil
	}
	messages := make([]string, 0, len(resp.GetPositions()))
	for _, position := range resp.GetPositions() {
		messages = append(messages, fmt.Sprintf("№%v %v %v %v, открыта по %v, прибыль: %.2f",
			position.Ticket, position.Type, position.Symbol, position.Volume, position.PriceOpen, position.Profit))
	}
	return messages, nil
}

func (tgBot *BridgeTgBot) deals(ctx context.Context, args string) ([]string, error) {
	tf, err := tgBot.lastDays(args)
	if err != nil {
		return nil, err
	}
	resp, err := tgBot.Api.GetDeals(ctx, tf, "")
	if err != nil {
		return nil, fmt.Errorf("get deals: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	if len(resp.GetDeals()) == 0 {
		return []string{"Сделок за период нет"}, nil
	}
	messages := make([]string, 0, len(resp.GetDeals()))
	for _, deal := range resp.GetDeals() {
		messages = append(messages, fmt.Sprintf("№%v %v %v %v %v по %v, прибыль: %.2f (%v)",
			deal.Ticket, deal.Type, deal.Entry, deal.Symbol, deal.Volume, deal.Price, deal.Profit, formatTime(deal.Time)))
	}
	return messages, nil
}

func (tgBot *BridgeTgBot) historyOrders(ctx context.Context, args string) ([]string, error) {
	tf, err := tgBot.lastDays(args)
	if err != nil {
		return nil, err
	}
	resp, err := tgBot.Api.GetHistoryOrders(ctx, tf, "")
	if err != nil {
		return nil, fmt.Errorf("get history orders: %v", err)
	}
	if err := bridgeError(resp.GetError()); err != nil {
		return nil, err
	}
	if len(resp.GetOrders()) == 0 {
		return []string{"Ордеров за период нет"}, nil
	}
	messages := make([]string, 0, len(resp.GetOrders()))
	for _, order := range resp.GetOrders() {
		messages = append(messages, fmt.Sprintf("№%v %v %v %v (%v) от %v",
			order.Ticket, order.Type, order.Symbol, order.VolumeInitial, order.State, formatTime(order.TimeSetup)))
	}
	return messages, nil
}

// lastDays builds the range [now - days, now]; an empty argument means the
// configured default.
func (tgBot *BridgeTgBot) lastDays(args string) (*bridgePkg.TimeFilter, error) {
	days := tgBot.HistoryDays
	if args != "" {
		parsed, err := strconv.Atoi(args)
		if err != nil || parsed <= 0 || parsed > maxHistoryDays {
			return nil, fmt.Errorf("не правильно указано количество дней: %v", args)
		}
		days = parsed
	}
	now := tgBot.now().UTC()
	return &bridgePkg.TimeFilter{
		DateFrom: now.AddDate(0, 0, -days).Unix(),
		DateTo:   now.Unix(),
	}, nil
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(timeLayout)
}

func symbolsKeyboard(symbols []string) tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup()
	row := tgbotapi.NewInlineKeyboardRow()
	for _, symbol := range symbols {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(symbol, symbol))
		if len(row) == 4 {
			markup.InlineKeyboard = append(markup.InlineKeyboard, row)
			row = tgbotapi.NewInlineKeyboardRow()
		}
	}
	if len(row) > 0 {
		markup.InlineKeyboard = append(markup.InlineKeyboard, row)
	}
	return markup
}

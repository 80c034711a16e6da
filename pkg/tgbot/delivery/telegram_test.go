package delivery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	bridgeDeliveryPkg "github.com/KeynihAV/mtbridge/pkg/bridge/delivery"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type fakeAPI struct {
	symbolInfo *bridgeDeliveryPkg.SymbolInfoResponse
	positions  *bridgeDeliveryPkg.PositionsResponse
	deals      *bridgeDeliveryPkg.DealsResponse
	err        error
	lastFilter *bridgePkg.TimeFilter
	selected   []string
}

func (f *fakeAPI) Connect(ctx context.Context) (*bridgeDeliveryPkg.ConnectResponse, error) {
	return &bridgeDeliveryPkg.ConnectResponse{Success: true}, f.err
}

func (f *fakeAPI) GetSymbols(ctx context.Context) (*bridgeDeliveryPkg.SymbolsGetResponse, error) {
	return &bridgeDeliveryPkg.SymbolsGetResponse{Symbols: []string{"EURUSD", "GBPUSD"}}, f.err
}

func (f *fakeAPI) SelectSymbol(ctx context.Context, symbol string, enable bool) (*bridgeDeliveryPkg.SymbolSelectResponse, error) {
	f.selected = append(f.selected, symbol)
	return &bridgeDeliveryPkg.SymbolSelectResponse{Success: true}, f.err
}

func (f *fakeAPI) GetSymbolInfo(ctx context.Context, symbol string) (*bridgeDeliveryPkg.SymbolInfoResponse, error) {
	return f.symbolInfo, f.err
}

func (f *fakeAPI) GetPositions(ctx context.Context, group string) (*bridgeDeliveryPkg.PositionsResponse, error) {
	return f.positions, f.err
}

func (f *fakeAPI) GetOrders(ctx context.Context, group string) (*bridgeDeliveryPkg.OrdersResponse, error) {
	return &bridgeDeliveryPkg.OrdersResponse{Orders: []*bridgePkg.Order{}}, f.err
}

func (f *fakeAPI) GetDeals(ctx context.Context, tf *bridgePkg.TimeFilter, group string) (*bridgeDeliveryPkg.DealsResponse, error) {
	f.lastFilter = tf
	return f.deals, f.err
}

func (f *fakeAPI) GetHistoryOrders(ctx context.Context, tf *bridgePkg.TimeFilter, group string) (*bridgeDeliveryPkg.OrdersResponse, error) {
	f.lastFilter = tf
	return &bridgeDeliveryPkg.OrdersResponse{Orders: []*bridgePkg.Order{
		{Ticket: 10, Type: bridgePkg.OrderTypeBuyLimit, State: bridgePkg.OrderStateFilled, Symbol: "EURUSD", VolumeInitial: 0.1, TimeSetup: 1704189600},
	}}, f.err
}

func newTestBot(api *fakeAPI) *BridgeTgBot {
	tgBot := NewBridgeTgBot(api, 0)
	tgBot.now = func() time.Time { return time.Unix(1704189600, 0) }
	return tgBot
}

func TestBridgeTgBot_HandleCommand(t *testing.T) {
	api := &fakeAPI{
		symbolInfo: &bridgeDeliveryPkg.SymbolInfoResponse{Error: &bridgePkg.ErrorInfo{Code: bridgePkg.CodeSymbolNotSelected, Message: "symbol not selected"}},
		positions:  &bridgeDeliveryPkg.PositionsResponse{Positions: []*bridgePkg.Position{{Ticket: 20, Symbol: "XAUUSD", Volume: 0.5, PriceOpen: 2030, Profit: 12.5}}},
		deals:      &bridgeDeliveryPkg.DealsResponse{Deals: []*bridgePkg.Deal{}},
	}
	tgBot := newTestBot(api)

	tests := []struct {
		name    string
		cmd     string
		args    string
		want    []string
		wantErr string
	}{
		{
			name: "Список инструментов",
			cmd:  "symbols",
			want: []string{"EURUSD, GBPUSD"},
		},
		{
			name:    "Инструмент не выбран",
			cmd:     "info",
			args:    "xauusd",
			wantErr: "code -5",
		},
		{
			name:    "Инструмент не указан",
			cmd:     "info",
			wantErr: "укажите инструмент",
		},
		{
			name: "Выбор инструмента",
			cmd:  "select",
			args: "gbpusd",
			want: []string{"GBPUSD добавлен в обзор рынка"},
		},
		{
			name: "Нет ордеров",
			cmd:  "orders",
			want: []string{"Активных ордеров нет"},
		},
		{
			name: "Позиции",
			cmd:  "positions",
			want: []string{"№20 buy XAUUSD 0.5, открыта по 2030, прибыль: 12.50"},
		},
		{
			name: "Нет сделок",
			cmd:  "deals",
			want: []string{"Сделок за период нет"},
		},
		{
			name: "История ордеров",
			cmd:  "history",
			args: "3",
			want: []string{"№10 buy_limit EURUSD 0.1 (filled) от 02 Jan 24 10:00"},
		},
		{
			name:    "Неверное число дней",
			cmd:     "deals",
			args:    "-1",
			wantErr: "количество дней",
		},
		{
			name:    "Неизвестная команда",
			cmd:     "buy",
			wantErr: "неизвестная команда",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tgBot.HandleCommand(context.Background(), tt.cmd, tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("HandleCommand() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleCommand() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HandleCommand() = %v, want %v", got, tt.want)
			}
		})
	}
	if !reflect.DeepEqual(api.selected, []string{"GBPUSD"}) {
		t.Errorf("selected = %v", api.selected)
	}
}

func TestBridgeTgBot_LastDays(t *testing.T) {
	api := &fakeAPI{deals: &bridgeDeliveryPkg.DealsResponse{}}
	tgBot := newTestBot(api)

	tests := []struct {
		name string
		args string
		want bridgePkg.TimeFilter
	}{
		{name: "По умолчанию", args: "", want: bridgePkg.TimeFilter{DateFrom: 1704189600 - 10*86400, DateTo: 1704189600}},
		{name: "Один день", args: "1", want: bridgePkg.TimeFilter{DateFrom: 1704189600 - 86400, DateTo: 1704189600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tgBot.HandleCommand(context.Background(), "deals", tt.args); err != nil {
				t.Fatalf("HandleCommand() error = %v", err)
			}
			if !reflect.DeepEqual(*api.lastFilter, tt.want) {
				t.Errorf("filter = %+v, want %+v", *api.lastFilter, tt.want)
			}
		})
	}
}

func TestBridgeTgBot_TransportError(t *testing.T) {
	tgBot := newTestBot(&fakeAPI{err: errors.New("connection refused")})
	_, err := tgBot.HandleCommand(context.Background(), "symbols", "")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("HandleCommand() error = %v", err)
	}
}

func TestSymbolsKeyboard(t *testing.T) {
	markup := symbolsKeyboard([]string{"A", "B", "C", "D", "E"})
	if len(markup.InlineKeyboard) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Errorf("symbolsKeyboard() rows = %v", markup.InlineKeyboard)
	}
}

func TestCommandFromUpdate(t *testing.T) {
	chat := &tgbotapi.Chat{ID: 42}
	command := &tgbotapi.Message{
		Chat:     chat,
		Text:     "/deals 5",
		Entities: &[]tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}
	tests := []struct {
		name     string
		update   tgbotapi.Update
		wantChat int64
		wantCmd  string
		wantArgs string
		wantOk   bool
	}{
		{
			name:     "Команда с аргументом",
			update:   tgbotapi.Update{Message: command},
			wantChat: 42, wantCmd: "deals", wantArgs: "5", wantOk: true,
		},
		{
			name:   "Обычный текст",
			update: tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat, Text: "привет"}},
		},
		{
			name: "Нажатие на клавиатуре",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				Message: &tgbotapi.Message{Chat: chat},
				Data:    "XAUUSD",
			}},
			wantChat: 42, wantCmd: "info", wantArgs: "XAUUSD", wantOk: true,
		},
		{
			name: "Inline callback без сообщения",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				InlineMessageID: "inline-1",
				Data:            "XAUUSD",
			}},
		},
		{
			name:   "Пустое обновление",
			update: tgbotapi.Update{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatID, cmd, args, ok := commandFromUpdate(tt.update)
			if chatID != tt.wantChat || cmd != tt.wantCmd || args != tt.wantArgs || ok != tt.wantOk {
				t.Errorf("commandFromUpdate() = %v, %q, %q, %v, want %v, %q, %q, %v",
					chatID, cmd, args, ok, tt.wantChat, tt.wantCmd, tt.wantArgs, tt.wantOk)
			}
		})
	}
}

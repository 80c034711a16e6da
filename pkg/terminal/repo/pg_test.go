package repo

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gopkg.in/DATA-DOG/go-sqlmock.v2"
)

func TestNewTerminalRepo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS terminal_info").WillReturnError(fmt.Errorf("no rights"))
	if _, err := NewTerminalRepo(db); err == nil {
		t.Errorf("NewTerminalRepo() expected error")
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS terminal_info").WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := NewTerminalRepo(db); err != nil {
		t.Errorf("NewTerminalRepo() error = %v", err)
	}
}

func TestTerminalRepo_GetSymbols(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	tests := []struct {
		name    string
		tr      *TerminalRepo
		want    []string
		wantErr bool
		mockF   func(sqlmock.Sqlmock)
	}{
		{name: "Ошибка select",
			tr:      &TerminalRepo{DB: db},
			wantErr: true,
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery("SELECT symbol FROM symbols").WillReturnError(fmt.Errorf("select error"))
			},
		},
		{name: "Пустой справочник",
			tr:   &TerminalRepo{DB: db},
			want: []string{},
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery("SELECT symbol FROM symbols").WillReturnRows(sqlmock.NewRows([]string{"symbol"}))
			},
		},
		{name: "Порядок терминала",
			tr:   &TerminalRepo{DB: db},
			want: []string{"GBPUSD", "EURUSD", "XAUUSD"},
			mockF: func(s sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"symbol"}).AddRow("GBPUSD").AddRow("EURUSD").AddRow("XAUUSD")
				s.ExpectQuery("SELECT symbol FROM symbols ORDER BY id").WillReturnRows(rows)
			},
		},
	}
	for _, tt := range tests {
		tt.mockF(mock)
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tr.GetSymbols(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("TerminalRepo.GetSymbols() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TerminalRepo.GetSymbols() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalRepo_GetSymbol(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	columns := []string{"symbol", "description", "path", "currency_base", "currency_profit", "point", "digits",
		"spread_float", "trade_mode", "trade_contract_size", "trade_stops_level", "volume_min", "volume_max",
		"volume_step", "swap_long", "swap_short"}

	tests := []struct {
		name    string
		tr      *TerminalRepo
		symbol  string
		want    *bridgePkg.SymbolInfo
		wantErr bool
		mockF   func(sqlmock.Sqlmock)
	}{
		{name: "Неизвестный символ",
			tr:     &TerminalRepo{DB: db},
			symbol: "USDXXX",
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery("FROM symbols WHERE symbol").WithArgs("USDXXX").WillReturnRows(sqlmock.NewRows(columns))
			},
		},
		{name: "Ошибка select",
			tr:      &TerminalRepo{DB: db},
			symbol:  "EURUSD",
			wantErr: true,
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery("FROM symbols WHERE symbol").WithArgs("EURUSD").WillReturnError(fmt.Errorf("select error"))
			},
		},
		{name: "Корректный select",
			tr:     &TerminalRepo{DB: db},
			symbol: "EURUSD",
			want: &bridgePkg.SymbolInfo{Symbol: "EURUSD", Description: "Euro vs US Dollar", CurrencyBase: "EUR",
				CurrencyProfit: "USD", Point: 0.00001, Digits: 5, SpreadFloat: true, TradeMode: bridgePkg.TradeModeFull,
				TradeContractSize: 100000, VolumeMin: 0.01, VolumeMax: 500, VolumeStep: 0.01, SwapLong: -6.5, SwapShort: 1.2},
			mockF: func(s sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow("EURUSD", "Euro vs US Dollar", "", "EUR", "USD", 0.00001, 5, true, 4, 100000.0, 0, 0.01, 500.0, 0.01, -6.5, 1.2)
				s.ExpectQuery("FROM symbols WHERE symbol").WithArgs("EURUSD").WillReturnRows(rows)
			},
		},
	}
	for _, tt := range tests {
		tt.mockF(mock)
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tr.GetSymbol(context.Background(), tt.symbol)
			if (err != nil) != tt.wantErr {
				t.Errorf("TerminalRepo.GetSymbol() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TerminalRepo.GetSymbol() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTerminalRepo_GetHistoryOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	columns := []string{"ticket", "time_setup", "time_done", "type", "state", "magic", "position_id",
		"volume_initial", "volume_current", "price_open", "stop_loss", "take_profit", "symbol", "comment"}
	tf := bridgePkg.TimeFilter{DateFrom: 1000, DateTo: 2000}

	tests := []struct {
		name    string
		tr      *TerminalRepo
		want    []*bridgePkg.Order
		wantErr bool
		mockF   func(sqlmock.Sqlmock)
	}{
		{name: "Ошибка select",
			tr:      &TerminalRepo{DB: db},
			wantErr: true,
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery("FROM history_orders").WithArgs(int64(1000), int64(2000)).WillReturnError(fmt.Errorf("select error"))
			},
		},
		{name: "Ошибка scan",
			tr:      &TerminalRepo{DB: db},
			wantErr: true,
			mockF: func(s sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"ticket", "symbol"}).AddRow(1, "EURUSD")
				s.ExpectQuery("FROM history_orders").WillReturnRows(rows)
			},
		},
		{name: "Корректный select",
			tr: &TerminalRepo{DB: db},
			want: []*bridgePkg.Order{{Ticket: 10, TimeSetup: 1000, TimeDone: 1001, Type: bridgePkg.OrderTypeSell,
				State: bridgePkg.OrderStateFilled, VolumeInitial: 1, PriceOpen: 1.1, Symbol: "EURUSD", Comment: "tp"}},
			mockF: func(s sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).AddRow(10, 1000, 1001, 1, 4, 0, 0, 1.0, 0.0, 1.1, 0.0, 0.0, "EURUSD", "tp")
				s.ExpectQuery("WHERE time_setup BETWEEN").WithArgs(int64(1000), int64(2000)).WillReturnRows(rows)
			},
		},
	}
	for _, tt := range tests {
		tt.mockF(mock)
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tr.GetHistoryOrders(context.Background(), tf)
			if (err != nil) != tt.wantErr {
				t.Errorf("TerminalRepo.GetHistoryOrders() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TerminalRepo.GetHistoryOrders() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalRepo_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	ctx := context.Background()
	tf := bridgePkg.TimeFilter{DateFrom: 5, DateTo: 10}

	tests := []struct {
		name    string
		count   func() (int, error)
		want    int
		wantErr bool
		mockF   func(sqlmock.Sqlmock)
	}{
		{name: "Количество позиций",
			count: func() (int, error) { return (&TerminalRepo{DB: db}).CountPositions(ctx) },
			want:  3,
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery(`SELECT COUNT\(\*\) FROM positions`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
			},
		},
		{name: "Количество исторических заявок",
			count: func() (int, error) { return (&TerminalRepo{DB: db}).CountHistoryOrders(ctx, tf) },
			want:  7,
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery(`SELECT COUNT\(\*\) FROM history_orders WHERE time_setup BETWEEN`).
					WithArgs(int64(5), int64(10)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
			},
		},
		{name: "Ошибка количества сделок",
			count:   func() (int, error) { return (&TerminalRepo{DB: db}).CountDeals(ctx, tf) },
			wantErr: true,
			mockF: func(s sqlmock.Sqlmock) {
				s.ExpectQuery(`SELECT COUNT\(\*\) FROM deals`).WillReturnError(fmt.Errorf("select error"))
			},
		},
	}
	for _, tt := range tests {
		tt.mockF(mock)
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.count()
			if (err != nil) != tt.wantErr {
				t.Errorf("count error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("count = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalRepo_GetTerminalInfo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"build", "trade_allowed", "company", "name", "language", "path", "data_path",
		"ping_last", "login", "server", "account_name", "currency", "balance", "equity", "leverage"}).
		AddRow(4150, true, "Demo Broker Ltd", "Demo Terminal", "English", "/opt/mt5", "/data", 30, 5001, "Demo-Server",
			"John", "USD", 10000.0, 10050.0, 100)
	mock.ExpectQuery("FROM terminal_info").WillReturnRows(rows)

	got, err := (&TerminalRepo{DB: db}).GetTerminalInfo(context.Background())
	if err != nil {
		t.Fatalf("GetTerminalInfo() error = %v", err)
	}
	want := &bridgePkg.TerminalInfo{Build: 4150, TradeAllowed: true, Company: "Demo Broker Ltd", Name: "Demo Terminal",
		Language: "English", Path: "/opt/mt5", DataPath: "/data", PingLast: 30,
		Account: bridgePkg.AccountInfo{Login: 5001, Server: "Demo-Server", Name: "John", Currency: "USD",
			Balance: 10000, Equity: 10050, Leverage: 100}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetTerminalInfo() = %+v, want %+v", got, want)
	}
}

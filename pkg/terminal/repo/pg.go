package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// TerminalRepo reads the terminal replica kept in PostgreSQL: symbol
// specifications, account state and trade records.
type TerminalRepo struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS terminal_info(
	id int PRIMARY KEY,
	build int NOT NULL,
	trade_allowed bool NOT NULL,
	company varchar(150) NOT NULL,
	name varchar(150) NOT NULL,
	language varchar(50) NOT NULL,
	path text NOT NULL,
	data_path text NOT NULL,
	ping_last bigint NOT NULL,
	login bigint NOT NULL,
	server varchar(150) NOT NULL,
	account_name varchar(150) NOT NULL,
	currency varchar(10) NOT NULL,
	balance float8 NOT NULL,
	equity float8 NOT NULL,
	leverage bigint NOT NULL);
CREATE TABLE IF NOT EXISTS symbols(
	id SERIAL PRIMARY KEY,
	symbol varchar(50) NOT NULL UNIQUE,
	description text NOT NULL DEFAULT '',
	path text NOT NULL DEFAULT '',
	currency_base varchar(10) NOT NULL DEFAULT '',
	currency_profit varchar(10) NOT NULL DEFAULT '',
	point float8 NOT NULL,
	digits int NOT NULL,
	spread_float bool NOT NULL DEFAULT true,
	trade_mode int NOT NULL,
	trade_contract_size float8 NOT NULL,
	trade_stops_level int NOT NULL DEFAULT 0,
	volume_min float8 NOT NULL,
	volume_max float8 NOT NULL,
	volume_step float8 NOT NULL,
	swap_long float8 NOT NULL DEFAULT 0,
	swap_short float8 NOT NULL DEFAULT 0);
CREATE TABLE IF NOT EXISTS orders(
	ticket bigint PRIMARY KEY,
	time_setup bigint NOT NULL,
	type int NOT NULL,
	state int NOT NULL,
	magic bigint NOT NULL,
	position_id bigint NOT NULL,
	volume_initial float8 NOT NULL,
	volume_current float8 NOT NULL,
	price_open float8 NOT NULL,
	price_current float8 NOT NULL,
	stop_loss float8 NOT NULL,
	take_profit float8 NOT NULL,
	symbol varchar(50) NOT NULL,
	comment text NOT NULL DEFAULT '');
CREATE TABLE IF NOT EXISTS history_orders(
	ticket bigint PRIMARY KEY,
	time_setup bigint NOT NULL,
	time_done bigint NOT NULL,
	type int NOT NULL,
	state int NOT NULL,
	magic bigint NOT NULL,
	position_id bigint NOT NULL,
	volume_initial float8 NOT NULL,
	volume_current float8 NOT NULL,
	price_open float8 NOT NULL,
	stop_loss float8 NOT NULL,
	take_profit float8 NOT NULL,
	symbol varchar(50) NOT NULL,
	comment text NOT NULL DEFAULT '');
CREATE INDEX IF NOT EXISTS history_orders_time_setup_idx ON history_orders (time_setup);
CREATE TABLE IF NOT EXISTS deals(
	ticket bigint PRIMARY KEY,
	order_ticket bigint NOT NULL,
	time bigint NOT NULL,
	type int NOT NULL,
	entry int NOT NULL,
	magic bigint NOT NULL,
	position_id bigint NOT NULL,
	volume float8 NOT NULL,
	price float8 NOT NULL,
	commission float8 NOT NULL,
	swap float8 NOT NULL,
	fee float8 NOT NULL,
	profit float8 NOT NULL,
	symbol varchar(50) NOT NULL,
	comment text NOT NULL DEFAULT '');
CREATE INDEX IF NOT EXISTS deals_time_idx ON deals (time);
CREATE TABLE IF NOT EXISTS positions(
	ticket bigint PRIMARY KEY,
	time bigint NOT NULL,
	type int NOT NULL,
	magic bigint NOT NULL,
	volume float8 NOT NULL,
	price_open float8 NOT NULL,
	price_current float8 NOT NULL,
	stop_loss float8 NOT NULL,
	take_profit float8 NOT NULL,
	swap float8 NOT NULL,
	profit float8 NOT NULL,
	symbol varchar(50) NOT NULL,
	comment text NOT NULL DEFAULT '');`

func NewTerminalRepo(db *sql.DB) (*TerminalRepo, error) {
	_, err := db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return &TerminalRepo{
		DB: db,
	}, nil
}

func (tr *TerminalRepo) Ping(ctx context.Context) error {
	return tr.DB.PingContext(ctx)
}

func (tr *TerminalRepo) GetTerminalInfo(ctx context.Context) (*bridgePkg.TerminalInfo, error) {
	info := &bridgePkg.TerminalInfo{}
	err := tr.DB.QueryRowContext(ctx, `
		SELECT build, trade_allowed, company, name, language, path, data_path, ping_last,
			login, server, account_name, currency, balance, equity, leverage
		FROM terminal_info WHERE id = 1`).
		Scan(&info.Build, &info.TradeAllowed, &info.Company, &info.Name, &info.Language, &info.Path,
			&info.DataPath, &info.PingLast, &info.Account.Login, &info.Account.Server, &info.Account.Name,
			&info.Account.Currency, &info.Account.Balance, &info.Account.Equity, &info.Account.Leverage)
	if err != nil {
		return nil, fmt.Errorf("terminal info: %w", err)
	}
	return info, nil
}

func (tr *TerminalRepo) GetSymbols(ctx context.Context) ([]string, error) {
	rows, err := tr.DB.QueryContext(ctx, `SELECT symbol FROM symbols ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		symbols = append(symbols, name)
	}
	return symbols, rows.Err()
}

// GetSymbol returns nil without error for unknown symbols.
func (tr *TerminalRepo) GetSymbol(ctx context.Context, symbol string) (*bridgePkg.SymbolInfo, error) {
	info := &bridgePkg.SymbolInfo{}
	err := tr.DB.QueryRowContext(ctx, `
		SELECT symbol, description, path, currency_base, currency_profit, point, digits, spread_float,
			trade_mode, trade_contract_size, trade_stops_level, volume_min, volume_max, volume_step,
			swap_long, swap_short
		FROM symbols WHERE symbol = $1`, symbol).
		Scan(&info.Symbol, &info.Description, &info.Path, &info.CurrencyBase, &info.CurrencyProfit,
			&info.Point, &info.Digits, &info.SpreadFloat, &info.TradeMode, &info.TradeContractSize,
			&info.TradeStopsLevel, &info.VolumeMin, &info.VolumeMax, &info.VolumeStep, &info.SwapLong, &info.SwapShort)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (tr *TerminalRepo) GetPositions(ctx context.Context) ([]*bridgePkg.Position, error) {
	rows, err := tr.DB.QueryContext(ctx, `
		SELECT ticket, time, type, magic, volume, price_open, price_current, stop_loss, take_profit,
			swap, profit, symbol, comment
		FROM positions ORDER BY time, ticket`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]*bridgePkg.Position, 0)
	for rows.Next() {
		p := &bridgePkg.Position{}
		err = rows.Scan(&p.Ticket, &p.Time, &p.Type, &p.Magic, &p.Volume, &p.PriceOpen, &p.PriceCurrent,
			&p.StopLoss, &p.TakeProfit, &p.Swap, &p.Profit, &p.Symbol, &p.Comment)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (tr *TerminalRepo) CountPositions(ctx context.Context) (int, error) {
	var total int
	err := tr.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM positions`).Scan(&total)
	return total, err
}

func (tr *TerminalRepo) GetOrders(ctx context.Context) ([]*bridgePkg.Order, error) {
	rows, err := tr.DB.QueryContext(ctx, `
		SELECT ticket, time_setup, type, state, magic, position_id, volume_initial, volume_current,
			price_open, price_current, stop_loss, take_profit, symbol, comment
		FROM orders ORDER BY time_setup, ticket`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*bridgePkg.Order, 0)
	for rows.Next() {
		o := &bridgePkg.Order{}
		err = rows.Scan(&o.Ticket, &o.TimeSetup, &o.Type, &o.State, &o.Magic, &o.PositionID, &o.VolumeInitial,
			&o.VolumeCurrent, &o.PriceOpen, &o.PriceCurrent, &o.StopLoss, &o.TakeProfit, &o.Symbol, &o.Comment)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// History orders are ranged by time_setup, both bounds inclusive.
func (tr *TerminalRepo) GetHistoryOrders(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Order, error) {
	rows, err := tr.DB.QueryContext(ctx, `
		SELECT ticket, time_setup, time_done, type, state, magic, position_id, volume_initial,
			volume_current, price_open, stop_loss, take_profit, symbol, comment
		FROM history_orders
		WHERE time_setup BETWEEN $1 AND $2
		ORDER BY time_setup, ticket`, tf.DateFrom, tf.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*bridgePkg.Order, 0)
	for rows.Next() {
		o := &bridgePkg.Order{}
		err = rows.Scan(&o.Ticket, &o.TimeSetup, &o.TimeDone, &o.Type, &o.State, &o.Magic, &o.PositionID,
			&o.VolumeInitial, &o.VolumeCurrent, &o.PriceOpen, &o.StopLoss, &o.TakeProfit, &o.Symbol, &o.Comment)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (tr *TerminalRepo) CountHistoryOrders(ctx context.Context, tf bridgePkg.TimeFilter) (int, error) {
	var total int
	err := tr.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history_orders WHERE time_setup BETWEEN $1 AND $2`, tf.DateFrom, tf.DateTo).
		Scan(&total)
	return total, err
}

func (tr *TerminalRepo) GetDeals(ctx context.Context, tf bridgePkg.TimeFilter) ([]*bridgePkg.Deal, error) {
	rows, err := tr.DB.QueryContext(ctx, `
		SELECT ticket, order_ticket, time, type, entry, magic, position_id, volume, price,
			commission, swap, fee, profit, symbol, comment
		FROM deals
		WHERE time BETWEEN $1 AND $2
		ORDER BY time, ticket`, tf.DateFrom, tf.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]*bridgePkg.Deal, 0)
	for rows.Next() {
		d := &bridgePkg.Deal{}
		err = rows.Scan(&d.Ticket, &d.Order, &d.Time, &d.Type, &d.Entry, &d.Magic, &d.PositionID, &d.Volume,
			&d.Price, &d.Commission, &d.Swap, &d.Fee, &d.Profit, &d.Symbol, &d.Comment)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (tr *TerminalRepo) CountDeals(ctx context.Context, tf bridgePkg.TimeFilter) (int, error) {
	var total int
	err := tr.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deals WHERE time BETWEEN $1 AND $2`, tf.DateFrom, tf.DateTo).
		Scan(&total)
	return total, err
}

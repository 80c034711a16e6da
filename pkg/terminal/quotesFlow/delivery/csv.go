package delivery

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

// Columns: symbol, date (YYYYMMDD), time (HHMMSS), bid, ask, last.
const quoteColumns = 6

type Flow struct {
	// Paced replays ticks one second of wall time per second of feed time.
	Paced bool
	// OnSkip is called for rows that cannot be parsed.
	OnSkip func(row int, err error)
}

func (f *Flow) Start(ctx context.Context, r io.Reader, quotesCh chan<- *bridgePkg.Quote) error {
	reader := csv.NewReader(r)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	var lastSecond time.Time
	row := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		row++
		if row == 1 {
			continue
		}

		quote, err := parseQuote(rec)
		if err != nil {
			f.skip(row, err)
			continue
		}

		currentSecond := time.Unix(quote.Time, 0)
		if lastSecond.IsZero() {
			lastSecond = currentSecond
		}
		if f.Paced {
			for lastSecond.Before(currentSecond) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Second):
				}
				lastSecond = lastSecond.Add(time.Second)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case quotesCh <- quote:
		}
	}

	return nil
}

func (f *Flow) skip(row int, err error) {
	if f.OnSkip != nil {
		f.OnSkip(row, err)
	}
}

func parseQuote(rec []string) (*bridgePkg.Quote, error) {
	if len(rec) < quoteColumns {
		return nil, fmt.Errorf("expected %v columns, got %v", quoteColumns, len(rec))
	}
	ts, err := time.Parse("20060102150405", rec[1]+rec[2])
	if err != nil {
		return nil, fmt.Errorf("parsing time: %w", err)
	}
	prices := make([]float64, 3)
	for i := range prices {
		prices[i], err = strconv.ParseFloat(rec[3+i], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing price column %v: %w", 3+i, err)
		}
	}
	return &bridgePkg.Quote{
		Symbol: rec[0],
		Bid:    prices[0],
		Ask:    prices[1],
		Last:   prices[2],
		Time:   ts.Unix(),
	}, nil
}

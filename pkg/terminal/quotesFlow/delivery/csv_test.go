package delivery

import (
	"context"
	"reflect"
	"strings"
	"testing"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
)

func TestFlow_Start(t *testing.T) {
	feed := `symbol,date,time,bid,ask,last
EURUSD,20240102,100000,1.10000,1.10020,1.10010
EURUSD,20240102,1000xx,1.1,1.1,1.1
GBPUSD,20240102,100000,1.27000,1.27030,1.27015
XAUUSD,20240102,100000,abc,2050.5,2050.4
`
	quotesCh := make(chan *bridgePkg.Quote, 10)
	skipped := []int{}
	flow := &Flow{OnSkip: func(row int, err error) { skipped = append(skipped, row) }}

	err := flow.Start(context.Background(), strings.NewReader(feed), quotesCh)
	if err != nil {
		t.Fatalf("Flow.Start() error = %v", err)
	}
	close(quotesCh)

	got := []*bridgePkg.Quote{}
	for q := range quotesCh {
		got = append(got, q)
	}
	want := []*bridgePkg.Quote{
		{Symbol: "EURUSD", Bid: 1.1, Ask: 1.1002, Last: 1.1001, Time: 1704189600},
		{Symbol: "GBPUSD", Bid: 1.27, Ask: 1.2703, Last: 1.27015, Time: 1704189600},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flow.Start() quotes = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(skipped, []int{3, 5}) {
		t.Errorf("Flow.Start() skipped rows = %v, want [3 5]", skipped)
	}
}

func TestFlow_StartCancelled(t *testing.T) {
	feed := "symbol,date,time,bid,ask,last\nEURUSD,20240102,100000,1.1,1.1002,1.1001\n"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&Flow{}).Start(ctx, strings.NewReader(feed), make(chan *bridgePkg.Quote))
	if err != context.Canceled {
		t.Errorf("Flow.Start() error = %v, want context.Canceled", err)
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func ids(insts []domain.Instrument) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMarketList(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{
			name:  "default sorts by market cap desc",
			query: ListQuery{},
			want:  []string{"bitcoin", "ethereum", "solana", "binancecoin", "ripple", "cardano", "dogecoin", "polkadot"},
		},
		{
			name:  "search matches name case-insensitively",
			query: ListQuery{Search: "COIN"},
			want:  []string{"bitcoin", "binancecoin", "dogecoin"},
		},
		{
			name:  "search matches symbol",
			query: ListQuery{Search: "sol"},
			want:  []string{"solana"},
		},
		{
			name:  "losers ascending by change",
			query: ListQuery{Category: CategoryLosers, SortBy: SortChange, Order: "asc"},
			want:  []string{"cardano", "ethereum", "polkadot"},
		},
		{
			name:  "gainers only positive change",
			query: ListQuery{Category: CategoryGainers, SortBy: SortChange},
			want:  []string{"ripple", "solana", "bitcoin", "dogecoin", "binancecoin"},
		},
		{
			name:  "volume category sorts by volume",
			query: ListQuery{Category: CategoryVolume},
			want:  []string{"bitcoin", "ethereum", "solana", "ripple", "binancecoin", "cardano", "dogecoin", "polkadot"},
		},
		{
			name:  "name ascending",
			query: ListQuery{SortBy: SortName, Order: "asc", Search: "o"},
			want:  []string{"binancecoin", "bitcoin", "cardano", "dogecoin", "polkadot", "solana"},
		},
		{
			name:  "no match",
			query: ListQuery{Search: "zzz"},
			want:  []string{},
		},
	}

	env := newTestEnv()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := testContext()
			defer cancel()

			got, err := env.market.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !equalStrings(ids(got), tt.want) {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestMarketList_InvalidQuery(t *testing.T) {
	env := newTestEnv()
	for _, q := range []ListQuery{
		{Category: "trending"},
		{SortBy: "rank"},
		{Order: "up"},
	} {
		ctx, cancel := testContext()
		_, err := env.market.List(ctx, q)
		cancel()

		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("query %+v: expected ValidationError, got %v", q, err)
		}
	}
}

func TestMarketStats(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	st, err := env.market.Stats(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if st.TotalMarketCapDisplay != "$1.26T" {
		t.Errorf("market cap display = %q, want $1.26T", st.TotalMarketCapDisplay)
	}
	if st.TotalVolume24hDisplay != "$53.44B" {
		t.Errorf("volume display = %q, want $53.44B", st.TotalVolume24hDisplay)
	}

	gainers := []string{st.TopGainers[0].Symbol, st.TopGainers[1].Symbol, st.TopGainers[2].Symbol}
	if !equalStrings(gainers, []string{"XRP", "SOL", "BTC"}) {
		t.Errorf("gainers = %v", gainers)
	}
	losers := []string{st.TopLosers[0].Symbol, st.TopLosers[1].Symbol, st.TopLosers[2].Symbol}
	if !equalStrings(losers, []string{"ADA", "ETH", "DOT"}) {
		t.Errorf("losers = %v", losers)
	}
}

func TestStatsOf_SmallCatalog(t *testing.T) {
	st := statsOf([]domain.Instrument{{ID: "a", Change24h: 1}, {ID: "b", Change24h: -1}})
	if len(st.TopGainers) != 2 || len(st.TopLosers) != 2 {
		t.Fatalf("expected 2 movers each side, got %d/%d", len(st.TopGainers), len(st.TopLosers))
	}
	if st.TopLosers[0].Change != -1 {
		t.Errorf("weakest loser first, got %v", st.TopLosers[0].Change)
	}
	if empty := statsOf(nil); len(empty.TopGainers) != 0 || empty.TotalMarketCapDisplay != "$0.00" {
		t.Errorf("unexpected empty stats %+v", empty)
	}
}

func TestMarketInstrument(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	inst, err := env.market.Instrument(ctx, "ethereum")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inst.Symbol != "ETH" || inst.Price != 2250.50 {
		t.Errorf("unexpected instrument %+v", inst)
	}

	if _, err := env.market.Instrument(ctx, "nope"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("expected ErrInstrumentNotFound, got %v", err)
	}
}

func TestMarketResolve_FallsBackToFirst(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	for _, id := range []string{"", "nope"} {
		inst, err := env.market.Resolve(ctx, id)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if inst.ID != "bitcoin" {
			t.Errorf("Resolve(%q) = %s, want bitcoin", id, inst.ID)
		}
	}
	inst, _ := env.market.Resolve(ctx, "solana")
	if inst.ID != "solana" {
		t.Errorf("Resolve(solana) = %s", inst.ID)
	}
}

func TestMarketCandles_DefaultTimeframe(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	got, err := env.market.Candles(ctx, "bitcoin", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 31 {
		t.Errorf("expected 31 points for 1m, got %d", len(got))
	}

	got, _ = env.market.Candles(ctx, "bitcoin", "1w")
	if len(got) != 8 {
		t.Errorf("expected 8 points for 1w, got %d", len(got))
	}
}

func TestPortfolio_ValueShares(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	view, err := env.portfolio.Get(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Assets) != 6 {
		t.Fatalf("expected 6 assets, got %d", len(view.Assets))
	}

	var sum float64
	for _, a := range view.Assets {
		sum += a.ValueShare
	}
	if sum < 99.999 || sum > 100.001 {
		t.Errorf("value shares sum to %v, want 100", sum)
	}
	if view.Assets[0].ID != "bitcoin" || view.Assets[0].Allocation != 58.3 {
		t.Errorf("allocation fixture changed: %+v", view.Assets[0])
	}
	if view.Change24h != 1.67 {
		t.Errorf("change24h = %v, want 1.67", view.Change24h)
	}
}

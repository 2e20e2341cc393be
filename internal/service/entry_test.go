package service

import (
	"errors"
	"math"
	"testing"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func TestEntryApply_Amount(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	res, err := env.entry.Apply(ctx, "bitcoin", FormState{Side: domain.OrderSideBuy}, Edit{Field: FieldAmount, Value: "0.5"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.State.Total != "21325.38" {
		t.Errorf("total = %q, want 21325.38", res.State.Total)
	}
	if math.Abs(res.State.Percentage-42.65075) > 1e-9 {
		t.Errorf("percentage = %v, want 42.65075", res.State.Percentage)
	}
	if !res.Ready || res.Problem != "" {
		t.Errorf("expected ready form, got problem %q", res.Problem)
	}
	if res.Price != 42650.75 || res.Symbol != "BTC" {
		t.Errorf("unexpected instrument context %+v", res)
	}
}

func TestEntryApply_PercentageBuy(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	res, err := env.entry.Apply(ctx, "bitcoin", FormState{}, Edit{Field: FieldPercentage, Value: "100"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.State.Total != "50000.00" || res.State.Amount != "1.17231233" {
		t.Errorf("got amount %q total %q", res.State.Amount, res.State.Total)
	}
	if !res.Ready {
		t.Errorf("spending the whole balance should be allowed, got %q", res.Problem)
	}
}

func TestEntryApply_SideSwitchResets(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	state := FormState{Side: domain.OrderSideBuy, Amount: "0.5", Total: "21325.38", Percentage: 42.6}
	res, err := env.entry.Apply(ctx, "bitcoin", state, Edit{Field: FieldSide, Value: "sell"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.State.Side != domain.OrderSideSell || res.State.Amount != "" || res.State.Total != "" || res.State.Percentage != 0 {
		t.Errorf("expected cleared sell form, got %+v", res.State)
	}
	if res.Ready || res.Problem != "please enter valid amount and total" {
		t.Errorf("problem = %q", res.Problem)
	}
}

func TestEntryApply_InsufficientInstrument(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	res, err := env.entry.Apply(ctx, "bitcoin", FormState{Side: domain.OrderSideSell}, Edit{Field: FieldAmount, Value: "3"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.State.Percentage != 100 {
		t.Errorf("percentage = %v, want clamped 100", res.State.Percentage)
	}
	if res.Problem != "not enough BTC to place this order" {
		t.Errorf("problem = %q", res.Problem)
	}
}

func TestEntryApply_UnknownInstrumentUsesFirst(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	res, err := env.entry.Apply(ctx, "nope", FormState{}, Edit{Field: FieldTotal, Value: "100"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.InstrumentID != "bitcoin" {
		t.Errorf("instrument = %s, want bitcoin", res.InstrumentID)
	}
}

func TestEntryApply_InvalidEdits(t *testing.T) {
	env := newTestEnv()
	tests := []struct {
		name  string
		state FormState
		edit  Edit
	}{
		{"unknown field", FormState{}, Edit{Field: "price", Value: "1"}},
		{"non-numeric percentage", FormState{}, Edit{Field: FieldPercentage, Value: "half"}},
		{"bad side edit", FormState{}, Edit{Field: FieldSide, Value: "hold"}},
		{"bad side state", FormState{Side: "hold"}, Edit{Field: FieldAmount, Value: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := testContext()
			defer cancel()

			_, err := env.entry.Apply(ctx, "bitcoin", tt.state, tt.edit)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestEntryApply_ClampsRestoredPercentage(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testContext()
	defer cancel()

	tests := []struct {
		name  string
		state float64
		want  float64
	}{
		{"above range", 500, 100},
		{"below range", -40, 0},
		{"in range", 37.5, 37.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := FormState{Side: domain.OrderSideBuy, Percentage: tt.state}
			res, err := env.entry.Apply(ctx, "bitcoin", state, Edit{Field: FieldSide, Value: "buy"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.State.Percentage != tt.want {
				t.Errorf("percentage = %v, want %v", res.State.Percentage, tt.want)
			}
		})
	}
}

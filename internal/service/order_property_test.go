package service

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/efreitasn/tradedesk/internal/domain"
)

func TestProperty_PagesPartitionHistory(t *testing.T) {
	env := newTestEnv()

	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 100).Draw(t, "limit")
		ctx, cancel := testContext()
		defer cancel()

		var seen []string
		total := -1
		for page := 1; ; page++ {
			orders, n, err := env.orderSvc.List(ctx, domain.OrderFilter{Page: page, Limit: limit})
			if err != nil {
				t.Fatalf("page %d: %v", page, err)
			}
			if total >= 0 && n != total {
				t.Fatalf("total changed between pages: %d then %d", total, n)
			}
			total = n
			if len(orders) > limit {
				t.Fatalf("page %d has %d orders, limit %d", page, len(orders), limit)
			}
			if len(orders) == 0 {
				break
			}
			seen = append(seen, orderIDs(orders)...)
		}

		if len(seen) != total {
			t.Fatalf("pages yielded %d orders, total %d", len(seen), total)
		}
		want := []string{"1004", "1001", "1002", "1005", "1003"}
		if !equalStrings(seen, want) {
			t.Fatalf("concatenated pages %v, want %v", seen, want)
		}
	})
}

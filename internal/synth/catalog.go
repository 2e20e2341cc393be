package synth

import "github.com/efreitasn/tradedesk/internal/domain"

// sparklinePoints is the number of points in each instrument's sparkline.
const sparklinePoints = 24

// catalogEntry is a hard-coded instrument baseline plus its sparkline band.
type catalogEntry struct {
	instrument domain.Instrument
	sparkMin   float64
	sparkMax   float64
}

var catalog = []catalogEntry{
	{
		instrument: domain.Instrument{
			ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC",
			Price: 42650.75, Change24h: 2.34, Volume24h: 28500000000, MarketCap: 827500000000,
			Image: "https://cryptologos.cc/logos/bitcoin-btc-logo.png",
		},
		sparkMin: 42000, sparkMax: 43000,
	},
	{
		instrument: domain.Instrument{
			ID: "ethereum", Name: "Ethereum", Symbol: "ETH",
			Price: 2250.50, Change24h: -1.27, Volume24h: 15700000000, MarketCap: 267300000000,
			Image: "https://cryptologos.cc/logos/ethereum-eth-logo.png",
		},
		sparkMin: 2230, sparkMax: 2280,
	},
	{
		instrument: domain.Instrument{
			ID: "binancecoin", Name: "Binance Coin", Symbol: "BNB",
			Price: 320.45, Change24h: 0.89, Volume24h: 980000000, MarketCap: 48750000000,
			Image: "https://cryptologos.cc/logos/bnb-bnb-logo.png",
		},
		sparkMin: 317, sparkMax: 323,
	},
	{
		instrument: domain.Instrument{
			ID: "ripple", Name: "XRP", Symbol: "XRP",
			Price: 0.52, Change24h: 5.12, Volume24h: 2400000000, MarketCap: 25600000000,
			Image: "https://cryptologos.cc/logos/xrp-xrp-logo.png",
		},
		sparkMin: 0.49, sparkMax: 0.54,
	},
	{
		instrument: domain.Instrument{
			ID: "cardano", Name: "Cardano", Symbol: "ADA",
			Price: 0.48, Change24h: -2.15, Volume24h: 850000000, MarketCap: 15900000000,
			Image: "https://cryptologos.cc/logos/cardano-ada-logo.png",
		},
		sparkMin: 0.47, sparkMax: 0.51,
	},
	{
		instrument: domain.Instrument{
			ID: "solana", Name: "Solana", Symbol: "SOL",
			Price: 132.75, Change24h: 4.65, Volume24h: 3700000000, MarketCap: 54300000000,
			Image: "https://cryptologos.cc/logos/solana-sol-logo.png",
		},
		sparkMin: 128, sparkMax: 134,
	},
	{
		instrument: domain.Instrument{
			ID: "polkadot", Name: "Polkadot", Symbol: "DOT",
			Price: 6.85, Change24h: -0.76, Volume24h: 520000000, MarketCap: 8700000000,
			Image: "https://cryptologos.cc/logos/polkadot-new-dot-logo.png",
		},
		sparkMin: 6.7, sparkMax: 7.0,
	},
	{
		instrument: domain.Instrument{
			ID: "dogecoin", Name: "Dogecoin", Symbol: "DOGE",
			Price: 0.085, Change24h: 1.35, Volume24h: 790000000, MarketCap: 11200000000,
			Image: "https://cryptologos.cc/logos/dogecoin-doge-logo.png",
		},
		sparkMin: 0.083, sparkMax: 0.087,
	},
}

// holding is a portfolio fixture row; value is derived at generation time.
type holding struct {
	id         string
	amount     float64
	allocation float64
}

var holdings = []holding{
	{id: "bitcoin", amount: 0.45, allocation: 58.3},
	{id: "ethereum", amount: 3.2, allocation: 21.9},
	{id: "solana", amount: 18.5, allocation: 7.5},
	{id: "binancecoin", amount: 5.7, allocation: 5.6},
	{id: "dogecoin", amount: 12500, allocation: 3.2},
	{id: "cardano", amount: 7500, allocation: 1.1},
}

// portfolioChange24h is the fixed 24h change reported for the portfolio.
const portfolioChange24h = 1.67

// historyRow is an order history fixture; total is derived.
type historyRow struct {
	id        string
	side      domain.OrderSide
	crypto    string
	price     float64
	amount    float64
	status    domain.OrderStatus
	timestamp string
}

var history = []historyRow{
	{"1001", domain.OrderSideBuy, "Bitcoin", 42350.75, 0.15, domain.OrderStatusCompleted, "2023-05-12T09:23:17Z"},
	{"1002", domain.OrderSideSell, "Ethereum", 2280.30, 0.75, domain.OrderStatusCompleted, "2023-05-10T14:45:22Z"},
	{"1003", domain.OrderSideBuy, "Solana", 128.45, 3.2, domain.OrderStatusCompleted, "2023-05-08T11:12:09Z"},
	{"1004", domain.OrderSideBuy, "Bitcoin", 43100.50, 0.08, domain.OrderStatusPending, "2023-05-15T08:34:51Z"},
	{"1005", domain.OrderSideSell, "Cardano", 0.49, 1200, domain.OrderStatusCanceled, "2023-05-09T16:27:33Z"},
}

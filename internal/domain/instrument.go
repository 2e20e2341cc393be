package domain

// Instrument is a tradable asset in the market catalog.
type Instrument struct {
	ID        string
	Name      string
	Symbol    string
	Price     float64
	Change24h float64 // percent
	Volume24h float64
	MarketCap float64
	Image     string
	Sparkline []float64
}

// CandlePoint is one OHLCV bucket of a price series. Time is a calendar
// date formatted as YYYY-MM-DD.
type CandlePoint struct {
	Time   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// FindInstrument returns the instrument with the given id from the catalog.
func FindInstrument(catalog []Instrument, id string) (Instrument, bool) {
	for _, inst := range catalog {
		if inst.ID == id {
			return inst, true
		}
	}
	return Instrument{}, false
}

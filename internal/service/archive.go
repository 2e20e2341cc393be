package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

type archivedCandle struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type archiveDocument struct {
	InstrumentID string           `json:"instrument_id"`
	Symbol       string           `json:"symbol"`
	Timeframe    string           `json:"timeframe"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Candles      []archivedCandle `json:"candles"`
}

// ArchiveResult describes a stored candle export.
type ArchiveResult struct {
	Key    string
	Points int
}

// ArchiveService exports candle series to blob storage.
type ArchiveService struct {
	market *MarketService
	writer domain.BlobWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewArchiveService creates an ArchiveService. A nil writer disables
// archiving.
func NewArchiveService(market *MarketService, writer domain.BlobWriter, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{
		market: market,
		writer: writer,
		logger: logger.With(slog.String("component", "archive")),
		now:    time.Now,
	}
}

// Enabled reports whether a blob store is configured.
func (s *ArchiveService) Enabled() bool {
	return s.writer != nil
}

// Archive stores the instrument's candles for timeframe under
// candles/{id}/{timeframe}/{YYYY-MM-DD}.json.
func (s *ArchiveService) Archive(ctx context.Context, id, timeframe string) (ArchiveResult, error) {
	if s.writer == nil {
		return ArchiveResult{}, domain.ErrArchiveDisabled
	}
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	if !slices.Contains(Timeframes, timeframe) {
		return ArchiveResult{}, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid timeframe: '%s'. Must be one of: 1d, 1w, 1m, 3m, 1y", timeframe),
		}
	}

	inst, err := s.market.Instrument(ctx, id)
	if err != nil {
		return ArchiveResult{}, err
	}
	candles, err := s.market.Candles(ctx, id, timeframe)
	if err != nil {
		return ArchiveResult{}, err
	}

	now := s.now().UTC()
	doc := archiveDocument{
		InstrumentID: inst.ID,
		Symbol:       inst.Symbol,
		Timeframe:    timeframe,
		GeneratedAt:  now,
		Candles:      make([]archivedCandle, len(candles)),
	}
	for i, c := range candles {
		doc.Candles[i] = archivedCandle(c)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return ArchiveResult{}, fmt.Errorf("service: encode archive: %w", err)
	}

	key := fmt.Sprintf("candles/%s/%s/%s.json", inst.ID, timeframe, now.Format("2006-01-02"))
	if err := s.writer.Put(ctx, key, &buf, "application/json"); err != nil {
		return ArchiveResult{}, fmt.Errorf("service: archive %s: %w", key, err)
	}

	s.logger.Info("candles archived", slog.String("key", key), slog.Int("points", len(candles)))
	return ArchiveResult{Key: key, Points: len(candles)}, nil
}

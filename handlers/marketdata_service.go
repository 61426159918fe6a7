// File: handlers/marketdata_service.go
// Market data handler.
// Grounded on _examples/original_source/hft_server.cpp's
// MarketDataService (process_message/broadcast_market_data), reworked
// to actually fan the update out to every connected client via the
// connection table instead of only logging.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package handlers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/momentics/hftgw/connection"
	"github.com/momentics/hftgw/wire"
)

// MarketDataService rebroadcasts incoming market data updates to every
// connection tracked by table.
type MarketDataService struct {
	log   *zap.Logger
	table *connection.Table
}

// NewMarketDataService constructs a MarketDataService that broadcasts
// over table. A nil logger falls back to a no-op logger.
func NewMarketDataService(table *connection.Table, log *zap.Logger) *MarketDataService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MarketDataService{log: log, table: table}
}

// ProcessMessage rebroadcasts MARKET_DATA records; other message types
// are ignored, matching the original service's guard.
func (s *MarketDataService) ProcessMessage(rec *wire.Record, conn *connection.Connection) error {
	if rec.MessageType != wire.MessageTypeMarketData {
		return nil
	}
	data, err := rec.MarketData()
	if err != nil {
		return fmt.Errorf("marketdata_service: %w", err)
	}
	return s.broadcast(rec, data)
}

func (s *MarketDataService) broadcast(rec *wire.Record, data *wire.MarketDataView) error {
	buf := make([]byte, wire.RecordSize)
	if _, err := rec.Encode(buf); err != nil {
		return fmt.Errorf("marketdata_service: encode: %w", err)
	}

	var sendErr error
	s.table.Range(func(c *connection.Connection) {
		if err := c.Send(buf); err != nil {
			s.log.Warn("market data broadcast failed", zap.Int("fd", c.FD), zap.Error(err))
			sendErr = err
		}
	})

	s.log.Debug("market data broadcast",
		zap.String("symbol", data.Symbol),
		zap.Uint64("last_price", data.LastPrice))
	return sendErr
}

// OnConnectionEstablished logs new subscriber attachment.
func (s *MarketDataService) OnConnectionEstablished(conn *connection.Connection) {
	s.log.Debug("market data subscriber attached", zap.Int("fd", conn.FD))
}

// OnConnectionClosed logs subscriber detachment.
func (s *MarketDataService) OnConnectionClosed(conn *connection.Connection) {
	s.log.Debug("market data subscriber detached", zap.Int("fd", conn.FD))
}

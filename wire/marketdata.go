package wire

import "encoding/binary"

const (
	mdOffSymbol    = 0
	mdOffBidPrice  = mdOffSymbol + SymbolLen // 16
	mdOffBidSize   = mdOffBidPrice + 8       // 24
	mdOffAskPrice  = mdOffBidSize + 4        // 28
	mdOffAskSize   = mdOffAskPrice + 8       // 36
	mdOffLastPrice = mdOffAskSize + 4        // 40
	mdOffLastSize  = mdOffLastPrice + 8      // 48
	mdOffVolume    = mdOffLastSize + 4       // 52
	mdOffHighPrice = mdOffVolume + 8         // 60
	mdOffLowPrice  = mdOffHighPrice + 8      // 68
	// MarketDataPayloadSize is the number of payload bytes a market data view uses.
	MarketDataPayloadSize = mdOffLowPrice + 8 // 76
)

// MarketDataView is the market-data-specific view over a Record's payload area.
type MarketDataView struct {
	Symbol    string
	BidPrice  uint64
	BidSize   uint32
	AskPrice  uint64
	AskSize   uint32
	LastPrice uint64
	LastSize  uint32
	Volume    uint64
	HighPrice uint64
	LowPrice  uint64
}

// PutMarketData writes a MarketDataView into the record's payload and
// sets MessageType/PayloadSize accordingly.
func (r *Record) PutMarketData(m *MarketDataView) {
	r.MessageType = MessageTypeMarketData
	p := r.Payload[:]
	PutSymbol(p[mdOffSymbol:], m.Symbol)
	binary.LittleEndian.PutUint64(p[mdOffBidPrice:], m.BidPrice)
	binary.LittleEndian.PutUint32(p[mdOffBidSize:], m.BidSize)
	binary.LittleEndian.PutUint64(p[mdOffAskPrice:], m.AskPrice)
	binary.LittleEndian.PutUint32(p[mdOffAskSize:], m.AskSize)
	binary.LittleEndian.PutUint64(p[mdOffLastPrice:], m.LastPrice)
	binary.LittleEndian.PutUint32(p[mdOffLastSize:], m.LastSize)
	binary.LittleEndian.PutUint64(p[mdOffVolume:], m.Volume)
	binary.LittleEndian.PutUint64(p[mdOffHighPrice:], m.HighPrice)
	binary.LittleEndian.PutUint64(p[mdOffLowPrice:], m.LowPrice)
	r.PayloadSize = MarketDataPayloadSize
}

// MarketData decodes the record's payload as a MarketDataView.
func (r *Record) MarketData() (*MarketDataView, error) {
	if r.PayloadSize < MarketDataPayloadSize {
		return nil, errPayloadTooSmall("market_data", MarketDataPayloadSize, r.PayloadSize)
	}
	p := r.Payload[:]
	return &MarketDataView{
		Symbol:    GetSymbol(p[mdOffSymbol:]),
		BidPrice:  binary.LittleEndian.Uint64(p[mdOffBidPrice:]),
		BidSize:   binary.LittleEndian.Uint32(p[mdOffBidSize:]),
		AskPrice:  binary.LittleEndian.Uint64(p[mdOffAskPrice:]),
		AskSize:   binary.LittleEndian.Uint32(p[mdOffAskSize:]),
		LastPrice: binary.LittleEndian.Uint64(p[mdOffLastPrice:]),
		LastSize:  binary.LittleEndian.Uint32(p[mdOffLastSize:]),
		Volume:    binary.LittleEndian.Uint64(p[mdOffVolume:]),
		HighPrice: binary.LittleEndian.Uint64(p[mdOffHighPrice:]),
		LowPrice:  binary.LittleEndian.Uint64(p[mdOffLowPrice:]),
	}, nil
}

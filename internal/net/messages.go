package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"matchcore/internal/common"
	"matchcore/internal/engine"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified username length")
)

type MessageType int

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	Tick
	LogBook
)

type ReportMessageType int

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

type Message interface {
	GetType() MessageType
}

// Message format constants. NewOrderMessageHeaderLen carries an
// OrderType wide enough for all eight concrete order types and an
// optional TriggerPrice, plus the presence flags that say which of
// LimitPrice/TriggerPrice actually apply.
const (
	BaseMessageHeaderLen        = 2
	NewOrderMessageHeaderLen    = 2 + 2 + 4 + 8 + 8 + 8 + 1 + 1 + 1 + 1
	CancelOrderMessageHeaderLen = 2 + 4 + 16
	TickMessageLen              = 2 + 4 + 1 + 8 + 1 + 8 + 1 + 8
)

// Generic message type.
type BaseMessage struct {
	TypeOf MessageType // 2 bytes
}

func (m BaseMessage) GetType() MessageType {
	return m.TypeOf
}

func parseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return BaseMessage{}, errors.New("message too short to contain header")
	}

	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	msg = msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(msg)
	case CancelOrder:
		return parseCancelOrder(msg)
	case Tick:
		return parseTick(msg)
	case LogBook:
		return BaseMessage{TypeOf: LogBook}, nil
	default:
		return BaseMessage{}, ErrInvalidMessageType
	}
}

// NewOrderMessage carries one of the eight order types matchcore
// understands. HasLimit/HasTrigger say which of LimitPrice/TriggerPrice
// the receiver should actually read, since a STOP_MARKET has no limit
// price and a plain LIMIT has no trigger price.
type NewOrderMessage struct {
	BaseMessage
	AssetType    engine.AssetType // 2 bytes
	OrderType    engine.OrderType // 2 bytes
	Ticker       string           // 4 bytes
	LimitPrice   float64          // 8 bytes
	TriggerPrice float64          // 8 bytes
	Quantity     uint64           // 8 bytes
	Side         engine.Side      // 1 byte
	HasLimit     bool             // 1 byte
	HasTrigger   bool             // 1 byte
	UsernameLen  uint8            // 1 byte
	Username     string           // n bytes
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < NewOrderMessageHeaderLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}

	m.AssetType = engine.AssetType(binary.BigEndian.Uint16(msg[0:2]))
	m.OrderType = engine.OrderType(binary.BigEndian.Uint16(msg[2:4]))
	m.Ticker = string(msg[4:8]) // Assuming ASCII/UTF-8 string
	m.LimitPrice = math.Float64frombits(binary.BigEndian.Uint64(msg[8:16]))
	m.TriggerPrice = math.Float64frombits(binary.BigEndian.Uint64(msg[16:24]))
	m.Quantity = binary.BigEndian.Uint64(msg[24:32])
	m.Side = engine.Side(msg[32])
	m.HasLimit = msg[33] != 0
	m.HasTrigger = msg[34] != 0
	m.UsernameLen = uint8(msg[35])

	expectedTotalLen := int(NewOrderMessageHeaderLen) + int(m.UsernameLen)
	if len(msg) < expectedTotalLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m.Username = string(msg[36 : 36+m.UsernameLen])

	return m, nil
}

// OrderPrices builds a venue.WorkingOrder-shaped set of price pointers from the
// wire message's presence flags, at the precision the receiving
// instrument quotes in.
func (m *NewOrderMessage) OrderPrices(precision uint32) (price, trigger *engine.Price) {
	if m.HasLimit {
		p := engine.NewPrice(m.LimitPrice, precision)
		price = &p
	}
	if m.HasTrigger {
		p := engine.NewPrice(m.TriggerPrice, precision)
		trigger = &p
	}
	return price, trigger
}

type CancelOrderMessage struct {
	BaseMessage
	AssetType engine.AssetType // 2 bytes
	Ticker    string           // 4 bytes
	OrderUUID string           // 16 bytes
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < CancelOrderMessageHeaderLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	m := CancelOrderMessage{BaseMessage: BaseMessage{TypeOf: CancelOrder}}
	m.AssetType = engine.AssetType(binary.BigEndian.Uint16(msg[0:2]))
	m.Ticker = string(msg[2:6])
	m.OrderUUID = string(msg[6:22])
	return m, nil
}

// TickMessage publishes a bid/ask/last update for a ticker — the market
// data ingestion that anything matching stop/touch-triggered orders
// genuinely needs. HasBid/HasAsk/HasLast let a producer publish a partial
// update, mirroring Venue.Tick's own nilable-pointer arguments.
type TickMessage struct {
	BaseMessage
	AssetType engine.AssetType
	Ticker    string
	HasBid    bool
	Bid       float64
	HasAsk    bool
	Ask       float64
	HasLast   bool
	Last      float64
}

func parseTick(msg []byte) (TickMessage, error) {
	if len(msg) < TickMessageLen {
		return TickMessage{}, ErrMessageTooShort
	}
	m := TickMessage{BaseMessage: BaseMessage{TypeOf: Tick}}
	m.AssetType = engine.AssetType(binary.BigEndian.Uint16(msg[0:2]))
	m.Ticker = string(msg[2:6])
	m.HasBid = msg[6] != 0
	m.Bid = math.Float64frombits(binary.BigEndian.Uint64(msg[7:15]))
	m.HasAsk = msg[15] != 0
	m.Ask = math.Float64frombits(binary.BigEndian.Uint64(msg[16:24]))
	m.HasLast = msg[24] != 0
	m.Last = math.Float64frombits(binary.BigEndian.Uint64(msg[25:33]))
	return m, nil
}

// Prices builds the nilable engine.Price triple Venue.Tick expects.
func (m *TickMessage) Prices(precision uint32) (bid, ask, last *engine.Price) {
	if m.HasBid {
		p := engine.NewPrice(m.Bid, precision)
		bid = &p
	}
	if m.HasAsk {
		p := engine.NewPrice(m.Ask, precision)
		ask = &p
	}
	if m.HasLast {
		p := engine.NewPrice(m.Last, precision)
		last = &p
	}
	return bid, ask, last
}

// Report is the wire encoding of one fill or error sent back to a
// connected client. One Report is sent per filled order, since the core
// never pairs two orders together itself; Counterparty names whatever
// the venue attributed the fill to.
type Report struct {
	MessageType     ReportMessageType    // 1 byte
	AssetType       engine.AssetType     // 1 byte
	Side            engine.Side          // 1 byte
	LiquiditySide   engine.LiquiditySide // 1 byte
	Timestamp       uint64               // 8 bytes
	Quantity        uint64               // 8 bytes
	Price           float64              // 8 bytes
	CounterpartyLen uint16               // 2 bytes
	ErrStrLen       uint32               // 4 bytes
	Ticker          string               // 4 bytes
	UUID            string               // 16 bytes
	Err             string               // n bytes
	Counterparty    string               // n bytes (in this case we show who)
}

const reportFixedHeaderLen = 1 + 1 + 1 + 1 + 8 + 8 + 8 + 2 + 4 + 4 + 16

// Serialize converts the report to be sent on the wire.
func (r *Report) Serialize() ([]byte, error) {
	totalSize := reportFixedHeaderLen + len(r.Err) + len(r.Counterparty)

	buf := make([]byte, totalSize)
	buf[0] = byte(r.MessageType)
	buf[1] = byte(r.AssetType)
	buf[2] = byte(r.Side)
	buf[3] = byte(r.LiquiditySide)
	binary.BigEndian.PutUint64(buf[4:12], r.Timestamp)
	binary.BigEndian.PutUint64(buf[12:20], r.Quantity)
	binary.BigEndian.PutUint64(buf[20:28], math.Float64bits(r.Price))
	binary.BigEndian.PutUint16(buf[28:30], r.CounterpartyLen)
	binary.BigEndian.PutUint32(buf[30:34], r.ErrStrLen)

	// Pack Strings (Ticker and UUID) into fixed buffers.
	// copy() ensures we don't panic if strings are shorter.
	tickerBuf := make([]byte, 4)
	copy(tickerBuf, r.Ticker)
	copy(buf[34:38], tickerBuf)

	uuidBuf := make([]byte, 16)
	copy(uuidBuf, r.UUID)
	copy(buf[38:54], uuidBuf)

	offset := reportFixedHeaderLen
	if r.ErrStrLen > 0 {
		copy(buf[offset:], r.Err)
	}
	offset += int(r.ErrStrLen)
	if r.CounterpartyLen > 0 {
		copy(buf[offset:], r.Counterparty)
	}
	return buf, nil
}

// generateWireTradeReport serializes a fill report for the trade's owner.
func generateWireTradeReport(trade common.Trade) ([]byte, error) {
	report := Report{
		MessageType:     ExecutionReport,
		AssetType:       trade.AssetType,
		Side:            trade.Side,
		LiquiditySide:   trade.LiquiditySide,
		Timestamp:       uint64(trade.Timestamp.UnixNano()),
		Quantity:        trade.Quantity,
		Price:           trade.Price.Decimal().InexactFloat64(),
		CounterpartyLen: uint16(len(trade.Counterparty)),
		Ticker:          truncate(trade.Ticker, 4),
		UUID:            truncate(trade.OrderID, 16),
		Counterparty:    trade.Counterparty,
	}
	return report.Serialize()
}

func generateWireErrorReport(owner string, err error) ([]byte, error) {
	errStr := fmt.Sprintf("%v", err)
	report := Report{
		MessageType:     ErrorReport,
		Timestamp:       uint64(time.Now().UnixNano()),
		ErrStrLen:       uint32(len(errStr)),
		CounterpartyLen: uint16(len(owner)),
		Err:             errStr,
		Counterparty:    owner,
	}
	return report.Serialize()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"matchcore/internal/engine"
	matchnet "matchcore/internal/net"
)

// reportFixedHeaderLen matches net.reportFixedHeaderLen: 1+1+1+1+8+8+8+2+4+4+16.
const reportFixedHeaderLen = 54

var orderTypeNames = map[string]engine.OrderType{
	"limit":                engine.Limit,
	"market-to-limit":      engine.MarketToLimit,
	"stop-market":          engine.StopMarket,
	"stop-limit":           engine.StopLimit,
	"market-if-touched":    engine.MarketIfTouched,
	"limit-if-touched":     engine.LimitIfTouched,
	"trailing-stop-market": engine.TrailingStopMarket,
	"trailing-stop-limit":  engine.TrailingStopLimit,
}

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the matchcore venue")
	owner := flag.String("owner", "", "Owner username (compulsory)")
	action := flag.String("action", "place", "Action to perform: ['place', 'cancel', 'log', 'tick']")

	ticker := flag.String("ticker", "AAPL", "Ticker symbol (max 4 chars)")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "Order type: one of the orderTypeNames keys")
	price := flag.Float64("price", 100.0, "Limit price, when the order type carries one")
	triggerPrice := flag.Float64("trigger", 0.0, "Trigger price, when the order type carries one")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")

	uuid := flag.String("uuid", "", "UUID of the order to cancel")

	bid := flag.Float64("bid", 0, "Bid to publish with -action=tick")
	ask := flag.Float64("ask", 0, "Ask to publish with -action=tick")
	last := flag.Float64("last", 0, "Last trade price to publish with -action=tick")

	flag.Parse()

	if *owner == "" && *action != "tick" && *action != "log" {
		fmt.Println("Error: -owner is compulsory.")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("Failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s as '%s'\n", *serverAddr, *owner)

	go readReports(conn)

	side := engine.Buy
	if strings.ToLower(*sideStr) == "sell" {
		side = engine.Sell
	}

	orderType, ok := orderTypeNames[strings.ToLower(*typeStr)]
	if !ok {
		log.Fatalf("Unknown order type: %s", *typeStr)
	}

	switch strings.ToLower(*action) {
	case "place":
		quantities := parseQuantities(*qtyStr)
		for _, q := range quantities {
			err := sendPlaceOrder(conn, *owner, *ticker, orderType, *price, *triggerPrice, q, side)
			if err != nil {
				log.Printf("Failed to place order (Qty: %d): %v", q, err)
			} else {
				fmt.Printf("-> Sent %s %s order: %s %d @ %.2f (trigger %.2f)\n",
					strings.ToUpper(*sideStr), *typeStr, *ticker, q, *price, *triggerPrice)
			}
			time.Sleep(5 * time.Millisecond)
		}

	case "cancel":
		if *uuid == "" {
			log.Fatal("Error: -uuid is required for cancellation")
		}
		err := sendCancelOrder(conn, *ticker, *uuid)
		if err != nil {
			log.Printf("Failed to send cancel request: %v", err)
		} else {
			fmt.Printf("-> Sent Cancel Request for UUID: %s\n", *uuid)
		}

	case "tick":
		err := sendTick(conn, *ticker, *bid, *ask, *last)
		if err != nil {
			log.Printf("Failed to send tick: %v", err)
		} else {
			fmt.Printf("-> Sent tick for %s: bid=%.2f ask=%.2f last=%.2f\n", *ticker, *bid, *ask, *last)
		}

	case "log":
		err := sendLog(conn)
		if err != nil {
			log.Printf("Failed to send log request: %v", err)
		} else {
			fmt.Println("-> Sent Log Request")
		}

	default:
		log.Fatalf("Unknown action: %s", *action)
	}

	fmt.Println("\nListening for reports... (Press Ctrl+C to exit)")
	select {}
}

func parseQuantities(input string) []uint64 {
	parts := strings.Split(input, ",")
	var result []uint64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseUint(p, 10, 64); err == nil {
			result = append(result, val)
		} else {
			log.Printf("Warning: Invalid quantity '%s', skipping.", p)
		}
	}
	return result
}

// presenceFor reports which of limit/trigger price a given order type
// carries, mirroring the presence rules documented on engine.Order.
func presenceFor(t engine.OrderType) (hasLimit, hasTrigger bool) {
	switch t {
	case engine.Limit, engine.MarketToLimit:
		return true, false
	case engine.StopMarket, engine.TrailingStopMarket, engine.MarketIfTouched:
		return false, true
	case engine.StopLimit, engine.LimitIfTouched, engine.TrailingStopLimit:
		return true, true
	default:
		return false, false
	}
}

func sendPlaceOrder(conn net.Conn, owner, ticker string, orderType engine.OrderType, price, triggerPrice float64, qty uint64, side engine.Side) error {
	usernameLen := len(owner)
	totalLen := matchnet.BaseMessageHeaderLen + matchnet.NewOrderMessageHeaderLen + usernameLen

	buf := make([]byte, totalLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(matchnet.NewOrder))

	binary.BigEndian.PutUint16(buf[2:4], uint16(engine.Equities))
	binary.BigEndian.PutUint16(buf[4:6], uint16(orderType))

	tickerBytes := make([]byte, 4)
	copy(tickerBytes, ticker)
	copy(buf[6:10], tickerBytes)

	binary.BigEndian.PutUint64(buf[10:18], math.Float64bits(price))
	binary.BigEndian.PutUint64(buf[18:26], math.Float64bits(triggerPrice))
	binary.BigEndian.PutUint64(buf[26:34], qty)

	buf[34] = byte(side)
	hasLimit, hasTrigger := presenceFor(orderType)
	if hasLimit {
		buf[35] = 1
	}
	if hasTrigger {
		buf[36] = 1
	}
	buf[37] = uint8(usernameLen)

	copy(buf[38:], owner)

	_, err := conn.Write(buf)
	return err
}

func sendCancelOrder(conn net.Conn, ticker, uuid string) error {
	buf := make([]byte, matchnet.BaseMessageHeaderLen+matchnet.CancelOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(matchnet.CancelOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(engine.Equities))

	tickerBytes := make([]byte, 4)
	copy(tickerBytes, ticker)
	copy(buf[4:8], tickerBytes)

	uuidBytes := make([]byte, 16)
	copy(uuidBytes, uuid)
	copy(buf[8:24], uuidBytes)

	_, err := conn.Write(buf)
	return err
}

func sendTick(conn net.Conn, ticker string, bid, ask, last float64) error {
	buf := make([]byte, matchnet.BaseMessageHeaderLen+matchnet.TickMessageLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(matchnet.Tick))
	binary.BigEndian.PutUint16(buf[2:4], uint16(engine.Equities))

	tickerBytes := make([]byte, 4)
	copy(tickerBytes, ticker)
	copy(buf[4:8], tickerBytes)

	buf[8] = 1
	binary.BigEndian.PutUint64(buf[9:17], math.Float64bits(bid))
	buf[17] = 1
	binary.BigEndian.PutUint64(buf[18:26], math.Float64bits(ask))
	buf[26] = 1
	binary.BigEndian.PutUint64(buf[27:35], math.Float64bits(last))

	_, err := conn.Write(buf)
	return err
}

func sendLog(conn net.Conn) error {
	buf := make([]byte, matchnet.BaseMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(matchnet.LogBook))
	_, err := conn.Write(buf)
	return err
}

// readReports continuously reads and parses Report messages from the server.
func readReports(conn net.Conn) {
	for {
		headerBuf := make([]byte, reportFixedHeaderLen)
		_, err := io.ReadFull(conn, headerBuf)
		if err != nil {
			if err != io.EOF {
				log.Printf("Connection lost: %v", err)
			}
			os.Exit(0)
		}

		msgType := matchnet.ReportMessageType(headerBuf[0])
		side := engine.Side(headerBuf[2])
		liquidity := engine.LiquiditySide(headerBuf[3])

		qty := binary.BigEndian.Uint64(headerBuf[12:20])
		price := math.Float64frombits(binary.BigEndian.Uint64(headerBuf[20:28]))
		counterpartyLen := binary.BigEndian.Uint16(headerBuf[28:30])
		errStrLen := binary.BigEndian.Uint32(headerBuf[30:34])

		ticker := string(headerBuf[34:38])
		uuid := string(headerBuf[38:54])

		totalVarLen := int(counterpartyLen) + int(errStrLen)
		varBuf := make([]byte, totalVarLen)
		if totalVarLen > 0 {
			if _, err := io.ReadFull(conn, varBuf); err != nil {
				log.Printf("Error reading report body: %v", err)
				break
			}
		}

		errStr := ""
		counterparty := ""
		if errStrLen > 0 {
			errStr = string(varBuf[:errStrLen])
		}
		if counterpartyLen > 0 {
			counterparty = string(varBuf[errStrLen:])
		}

		if msgType == matchnet.ErrorReport {
			fmt.Printf("\n[VENUE ERROR] %s (owner=%s)\n", errStr, counterparty)
		} else {
			fmt.Printf("\n[EXECUTION] %s %s | liquidity=%s | qty: %d | price: %.2f | vs: %s | uuid: %s\n",
				side, ticker, liquidity, qty, price, counterparty, strings.TrimRight(uuid, "\x00"))
		}
	}
}

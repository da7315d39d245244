package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/common"
	"matchcore/internal/engine"
	"matchcore/internal/venue"
)

const (
	MAX_RECV_SIZE      = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Second
)

var (
	ErrImproperConversion = errors.New("improper type conversion")
	ErrClientDoesNotExist = errors.New("client does not exist")
)

// ClientSession tracks one connected TCP session and the account name it
// has identified itself as, once its first order message arrives.
type ClientSession struct {
	conn  net.Conn
	owner string
}

// ClientMessage links a message to the connection it arrived on.
type ClientMessage struct {
	address string
	message Message
}

// Engine is the subset of *venue.Venue the server drives, declared
// locally rather than depending on the concrete type directly.
type Engine interface {
	Register(assetType engine.AssetType, ticker string, instrument engine.Instrument) error
	PlaceOrder(order *venue.WorkingOrder) error
	CancelOrder(ticker, orderID string) error
	Tick(ticker string, bid, ask, last *engine.Price) error
	LogBook()
}

type Server struct {
	address string
	port    int
	engine  Engine
	pool    WorkerPool

	instruments     map[string]engine.Instrument
	instrumentsLock sync.RWMutex

	cancel             context.CancelFunc
	clientSessions     map[string]*ClientSession
	clientSessionsLock sync.Mutex
	clientMessages     chan ClientMessage
}

func New(address string, port int, eng Engine) *Server {
	return &Server{
		address:        address,
		port:           port,
		engine:         eng,
		pool:           NewWorkerPool(defaultNWorkers),
		instruments:    make(map[string]engine.Instrument),
		clientSessions: make(map[string]*ClientSession),
		clientMessages: make(chan ClientMessage, 1),
	}
}

// RegisterInstrument registers ticker with the underlying engine and
// remembers its price precision, so incoming wire prices (plain float64)
// can be converted to fixed-point engine.Price values.
func (s *Server) RegisterInstrument(assetType engine.AssetType, ticker string, instrument engine.Instrument) error {
	if err := s.engine.Register(assetType, ticker, instrument); err != nil {
		return err
	}
	s.instrumentsLock.Lock()
	defer s.instrumentsLock.Unlock()
	s.instruments[ticker] = instrument
	return nil
}

func (s *Server) precisionFor(ticker string) uint32 {
	s.instrumentsLock.RLock()
	defer s.instrumentsLock.RUnlock()
	if instrument, ok := s.instruments[ticker]; ok {
		return instrument.PricePrecision()
	}
	return 2
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	s.cancel()
}

func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	// Setup a cancel on the context for future shutdown.
	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	// Start a tcp listener.
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	// Start the worker pool.
	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	// Start the session handler.
	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Msg("server running")

	// Start accepting connections.
	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}

			log.Info().
				Str("address", conn.RemoteAddr().String()).
				Msg("new client added")
			s.addClientSession(conn)
			s.pool.AddTask(conn)
		}
	}
}

// ReportTrade writes a fill report to the owning client, if it still has
// a connected session.
func (s *Server) ReportTrade(trade common.Trade) {
	wire, err := generateWireTradeReport(trade)
	if err != nil {
		log.Error().Err(err).Msg("unable to serialize trade report")
		return
	}

	session, ok := s.sessionForOwner(trade.Owner)
	if !ok {
		log.Warn().Str("owner", trade.Owner).Msg("no session for trade owner")
		return
	}

	if _, err := session.conn.Write(wire); err != nil {
		s.deleteClientSession(session.conn.RemoteAddr().String())
		log.Error().Err(err).Str("owner", trade.Owner).Msg("unable to send trade report")
	}
}

// ReportError writes an error report to the named owner, if known, and
// otherwise logs it.
func (s *Server) ReportError(owner string, err error) {
	wire, wireErr := generateWireErrorReport(owner, err)
	if wireErr != nil {
		log.Error().Err(wireErr).Msg("unable to serialize error report")
		return
	}

	if owner == "" {
		log.Error().Err(err).Msg("unrouted venue error")
		return
	}

	session, ok := s.sessionForOwner(owner)
	if !ok {
		log.Warn().Str("owner", owner).Err(err).Msg("no session to report error to")
		return
	}

	if _, sendErr := session.conn.Write(wire); sendErr != nil {
		s.deleteClientSession(session.conn.RemoteAddr().String())
		log.Error().Err(sendErr).Str("owner", owner).Msg("unable to send error report")
	}
}

func (s *Server) sessionForOwner(owner string) (*ClientSession, bool) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	for _, session := range s.clientSessions {
		if session.owner == owner {
			return session, true
		}
	}
	return nil, false
}

// sessionHandler reads off incoming messages from clients and handles
// high-level session logic. Messages are received from the pool of
// workers.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case message := <-s.clientMessages:
			if err := s.handleMessage(message); err != nil {
				log.Error().
					Err(err).
					Str("address", message.address).
					Msg("error handling message")
				s.ReportError(s.ownerForAddress(message.address), err)
			}
		}
	}
}

func (s *Server) ownerForAddress(address string) string {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	if session, ok := s.clientSessions[address]; ok {
		return session.owner
	}
	return ""
}

func (s *Server) handleMessage(message ClientMessage) error {
	switch message.message.GetType() {
	case NewOrder:
		order, ok := message.message.(NewOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		s.setSessionOwner(message.address, order.Username)

		precision := s.precisionFor(order.Ticker)
		price, trigger := order.OrderPrices(precision)
		working := venue.NewWorkingOrder(
			order.AssetType, order.Ticker, order.Side, order.OrderType,
			price, trigger, order.Quantity, order.Username,
		)
		if err := s.engine.PlaceOrder(working); err != nil {
			s.ReportError(order.Username, err)
			log.Error().Err(err).Str("owner", order.Username).Msg("error while placing order")
		}
	case CancelOrder:
		order, ok := message.message.(CancelOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		if err := s.engine.CancelOrder(order.Ticker, order.OrderUUID); err != nil {
			owner := s.ownerForAddress(message.address)
			s.ReportError(owner, err)
			log.Error().
				Err(err).
				Str("uuid", order.OrderUUID).
				Msg("error while cancelling order")
		}
	case Tick:
		tick, ok := message.message.(TickMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		precision := s.precisionFor(tick.Ticker)
		bid, ask, last := tick.Prices(precision)
		if err := s.engine.Tick(tick.Ticker, bid, ask, last); err != nil {
			log.Error().Err(err).Str("ticker", tick.Ticker).Msg("error applying tick")
		}
	case LogBook:
		s.engine.LogBook()
	default:
		log.Error().
			Int("messageType", int(message.message.GetType())).
			Any("message", message).
			Msg("invalid message type")
		return ErrInvalidMessageType
	}
	return nil
}

// handleConnection is a short-lived worker method which reads the next
// message off the connection, parses and passes it forward to
// sessionHandler to handle it. If the connection dies, the client session
// is cleaned up. Note, any error returned from here is fatal.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	requeued := false
	defer func() {
		if requeued {
			return
		}
		if err := conn.Close(); err != nil {
			log.Error().Str("address", conn.RemoteAddr().String()).Err(err).Msg("closing connection")
		}
	}()

	err := conn.SetDeadline(time.Now().Add(defaultConnTimeout))
	if err != nil {
		log.Error().
			Str("address", conn.RemoteAddr().String()).
			Err(err).
			Msg("failed setting deadline for connection")
		return nil
	}

	buffer := make([]byte, MAX_RECV_SIZE)
	select {
	case <-t.Dying():
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			log.Error().
				Err(err).
				Str("address", conn.RemoteAddr().String()).
				Msg("error reading from connection")
			s.deleteClientSession(conn.RemoteAddr().String())
			return nil
		}

		message, err := parseMessage(buffer[:n])
		if err != nil {
			log.Error().
				Err(err).
				Str("address", conn.RemoteAddr().String()).
				Msg("error parsing message")
			s.deleteClientSession(conn.RemoteAddr().String())
			return nil
		}

		s.clientMessages <- ClientMessage{
			message: message,
			address: conn.RemoteAddr().String(),
		}

		// Push the client connection back to handle the next message.
		requeued = true
		s.pool.AddTask(conn)
	}
	return nil
}

func (s *Server) addClientSession(conn net.Conn) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	s.clientSessions[conn.RemoteAddr().String()] = &ClientSession{conn: conn}
}

func (s *Server) setSessionOwner(address, owner string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	if session, ok := s.clientSessions[address]; ok {
		session.owner = owner
	}
}

func (s *Server) deleteClientSession(address string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, address)
}

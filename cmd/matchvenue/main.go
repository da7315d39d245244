package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"matchcore/internal/engine"
	"matchcore/internal/net"
	"matchcore/internal/venue"
)

// defaultTickers are registered on startup so a client can place orders
// against them immediately; a production deployment would load this from
// reference data instead.
var defaultTickers = []string{"AAPL", "MSFT", "TSLA"}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	v := venue.New(nil, nil)
	srv := net.New("0.0.0.0", 9001, v)
	v.SetReporters(srv.ReportTrade, srv.ReportError)

	for _, ticker := range defaultTickers {
		if err := srv.RegisterInstrument(engine.Equities, ticker, venue.Instrument{Precision: 2}); err != nil {
			log.Fatal().Err(err).Str("ticker", ticker).Msg("unable to register instrument")
		}
	}

	go srv.Run(ctx)
	log.Info().Msg("matchvenue running")
	<-ctx.Done()
	v.Shutdown()
}

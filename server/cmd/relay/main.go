package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/server/core"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	port := flag.Uint("port", uint(config.Network.Port), "Relay port")
	maxPlayers := flag.Int("max", config.Network.MaxPlayers, "Maximum joined players")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if config.Env.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: config.Env.SentryDSN}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		}
		defer sentry.Flush(5 * time.Second)
	}

	server := core.NewServer(*maxPlayers, logrus.NewEntry(log))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutting down relay...")
		sentry.Flush(2 * time.Second)
		os.Exit(0)
	}()

	log.Infof("Starting relay on port %d (max players: %d)", *port, *maxPlayers)
	if err := server.Start(*port); err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Relay error: %v", err)
	}
}

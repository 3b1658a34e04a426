package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalapp "github.com/abhijeeth-pa/vredutech/internal/app"
	internallogger "github.com/abhijeeth-pa/vredutech/internal/logger"
	internalhttp "github.com/abhijeeth-pa/vredutech/internal/server/http"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
}

func main() {
	flag.Parse()

	config, err := LoadConfig(configFile)
	if err != nil {
		fmt.Println("Error loading config: ", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	logg := internallogger.New(config.Logger.Level, nil)

	app := internalapp.New(logg, internalapp.Config{
		TickPeriod: time.Duration(config.Broadcast.TickMs) * time.Millisecond,
		ReapEvery:  time.Duration(config.Heartbeat.ReapIntervalSec) * time.Second,
		StaleAfter: time.Duration(config.Heartbeat.StaleAfterSec) * time.Second,
	})
	app.Start(ctx)

	server := internalhttp.New(logg, app, "", config.Port)

	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logg.Error("failed to stop http server: " + err.Error())
		}
	}()

	logg.Info(fmt.Sprintf("Classroom service listening on port: %d", config.Port))

	if err := server.Start(ctx); err != nil {
		logg.Error("failed to start http server: " + err.Error())
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}

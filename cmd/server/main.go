package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/mycoach-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	errc := make(chan error, 1)
	go func() { errc <- application.Run() }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil {
			application.Log.Error("Server stopped", "error", err)
		}
	case sig := <-sigc:
		application.Log.Info("Shutting down", "signal", sig.String())
	}
}

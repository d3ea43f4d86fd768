package main

import (
	"fmt"
	"log"

	socketio "github.com/googollee/go-socket.io"
	"github.com/joyrc/teleop_client/internal/app"
	"github.com/joyrc/teleop_client/internal/config"
)

func main() {
	cfg := config.GetConfig()

	socketURI := fmt.Sprintf("http://%s", cfg.ServerCfg.Server)
	client, err := socketio.NewClient(socketURI, nil)
	if err != nil {
		err = fmt.Errorf("error creating client - %w", err)
		panic(err)
	}

	app := app.NewApp(cfg, client)

	app.RegisterHandlers()

	err = app.Start()
	if err != nil {
		log.Printf("client shutdown with error: %s", err.Error())
	} else {
		log.Println("client shutdown successfully")
	}
}

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/mretx/api"
	mre "github.com/matt-g-everett/mretx/app"
	"github.com/matt-g-everett/mretx/config"
	"github.com/matt-g-everett/mretx/host"
)

type app struct {
	Config config.Config
	Client mqtt.Client
	Host   *host.MQTTHost
	Scene  *mre.App

	startOnce sync.Once
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Host.Subscribe(); err != nil {
		log.Printf("Subscribing to events: %v", err)
		return
	}

	// Reconnects resubscribe but keep the scene that is already there.
	a.startOnce.Do(func() {
		go func() {
			if err := a.Scene.Start(); err != nil {
				log.Printf("Starting scene: %v", err)
			}
		}()
	})
}

func (a *app) run() {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Disconnecting")
	a.Client.Disconnect(250)
	a.Host.Close()
}

func (a *app) readConfig(configPath string) {
	c, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}
	a.Config = c
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Scene: %s, commands: %s, events: %s",
		a.Config.App.Scene, a.Config.Mqtt.Topics.Commands, a.Config.Mqtt.Topics.Events)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect)
	client := mqtt.NewClient(options)

	a.Client = client
	a.Host = host.NewMQTTHost(client, a.Config.Topics(), a.Config.Mqtt.PublishTimeout)
	a.Scene = mre.NewApp(a.Host, a.Config.Settings())

	go func() {
		if err := api.NewApi(a.Config.API.Static).Serve(a.Config.API.Listen); err != nil {
			log.Printf("API server stopped: %v", err)
		}
	}()

	a.run()
}

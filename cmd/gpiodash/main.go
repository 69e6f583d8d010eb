package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/gpiodash/gpiodash/hardware"
	"github.com/gpiodash/gpiodash/notify"
	"github.com/gpiodash/gpiodash/pins"
	"github.com/gpiodash/gpiodash/server"
	"github.com/gpiodash/gpiodash/store"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		addr         = flag.String("addr", ":10000", "address to serve http on")
		pinTable     = flag.String("pins", pins.DefaultPath, "pin table CSV (pin,name,state); two default pins are used if it doesn't exist")
		driver       = flag.String("driver", string(hardware.DriverPeriph), "gpio driver: pigpio, periph, cdev, rpio or memory")
		pigpioAddr   = flag.String("pigpio-addr", "localhost:8888", "pigpio daemon address")
		chip         = flag.String("chip", "gpiochip0", "gpio character device chip")
		dbPath       = flag.String("db", "gpiodash.db", "action journal path, empty to disable")
		dbEngine     = flag.String("db-engine", "bbolt", "action journal engine: bbolt or badger")
		redisAddr    = flag.String("redis-addr", "", "redis address to publish pin actions to, empty to disable")
		redisChannel = flag.String("redis-channel", "gpiodash/pins", "redis channel to publish pin actions on")
		rebootCmd    = flag.String("reboot-cmd", "sudo reboot now", "command run by /reboot")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	registry, err := pins.Load(*pinTable)
	if err != nil {
		logger.WithError(err).Fatal("unable to load pin table")
	}
	logger.WithFields(logrus.Fields{"path": *pinTable, "pins": registry.Len()}).Info("loaded pin table")

	g, err := hardware.New(hardware.Config{
		Driver:     hardware.Driver(*driver),
		PigpioAddr: *pigpioAddr,
		Chip:       *chip,
	})
	if err != nil {
		logger.WithError(err).Fatal("unable to open gpio")
	}
	defer g.Close()

	if err := pins.Initialize(g, registry, logger); err != nil {
		logger.WithError(err).Fatal("unable to initialise pins")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebootArgs := strings.Fields(*rebootCmd)
	if len(rebootArgs) == 0 {
		logger.Fatal("empty reboot command")
	}

	srv := server.Server{
		Addr:   *addr,
		Pins:   registry,
		GPIO:   g,
		Reboot: server.Command(rebootArgs[0], rebootArgs[1:]...),
		Logger: logger,
	}

	if *dbPath != "" {
		journal, err := openStore(*dbEngine, *dbPath, logger)
		if err != nil {
			logger.WithError(err).Fatal("unable to open store")
		}
		defer journal.Close()
		srv.Store = journal
	}

	if *redisAddr != "" {
		notifier, err := notify.DialRedis(ctx, *redisAddr, *redisChannel)
		if err != nil {
			logger.WithError(err).Fatal("unable to connect to redis")
		}
		defer notifier.Close()
		srv.Notifier = notifier
	}

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server exited")
	}
}

func openStore(engine, path string, logger *logrus.Logger) (store.Store, error) {
	switch engine {
	case "badger":
		return store.OpenBadger(badger.DefaultOptions(path).WithLogger(logger))
	default:
		return store.OpenBBolt(path, 0600, nil)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ledmaze/config"
	"ledmaze/host/monitor"
	"ledmaze/host/serial"
)

var (
	device     = flag.String("device", "", "Serial device path (default from config)")
	baud       = flag.Int("baud", 0, "Baud rate (default from config)")
	configPath = flag.String("config", "", "JSON configuration file")
	replay     = flag.String("replay", "", "Read a raw capture instead of a serial port")
	record     = flag.String("record", "", "Write the raw serial stream to this file")
	saveDir    = flag.String("save", "", "Directory to save received maze snapshots")
	verbose    = flag.Bool("verbose", false, "Print every ball report")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("LED Maze Monitor")
	fmt.Println("================")

	b := monitor.NewBoard(os.Stdout)
	b.SetVerbose(*verbose)
	if *saveDir != "" {
		if err := b.SetSaveDir(*saveDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := connect(b, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := b.Stats()
	fmt.Printf("\n%d frames, %d dropped, %d bad\n", st.Frames, st.Dropped, st.BadFrames)
}

func loadConfig() (config.Config, error) {
	base := config.Default()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return base, err
		}
		c, err := config.Load(data)
		if err != nil {
			return base, fmt.Errorf("%s: %w", *configPath, err)
		}
		base = *c
	}
	return config.FromEnv(base)
}

func connect(b *monitor.Board, cfg config.Config) error {
	if *replay != "" {
		fmt.Printf("Replaying %s...\n", *replay)
		return b.Replay(*replay)
	}

	sc := serial.DefaultConfig(cfg.SerialDevice)
	sc.Baud = cfg.SerialBaud
	if *device != "" {
		sc.Device = *device
	}
	if *baud != 0 {
		sc.Baud = *baud
	}

	fmt.Printf("Connecting to board on %s...\n", sc.Device)
	port, err := serial.Open(sc)
	if err != nil {
		return err
	}
	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			port.Close()
			return err
		}
		// closed by process exit
		b.Attach(serial.Record(port, f))
	} else {
		b.Attach(port)
	}
	fmt.Println("Connected successfully!")
	return nil
}

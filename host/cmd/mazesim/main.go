package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"ledmaze/config"
	"ledmaze/core"
	"ledmaze/game"
	"ledmaze/hub75"
	"ledmaze/manager"
	"ledmaze/protocol"
	"ledmaze/snapshot"
	"ledmaze/sound"
	"ledmaze/status"
	"ledmaze/telemetry"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	loadPath   = flag.String("load", "", "Start from a saved maze snapshot")
	seed       = flag.Int64("seed", 0, "Generator seed (0 = from config or clock)")
	auto       = flag.Bool("auto", false, "Start the next round when the goal is reached")
	mute       = flag.Bool("mute", false, "Disable sound")
	linkPath   = flag.String("link", "", "Write the debug link stream to this file")
	logPath    = flag.String("log", "", "Write debug output to this file")
)

const (
	drawPeriod = 33 * time.Millisecond
	ballPeriod = 100 * time.Millisecond
)

type sim struct {
	screen tcell.Screen
	mgr    *manager.Manager
	frame  *hub75.Frame
	keys   *keyboard
	status *termDisplay
	panel  *status.Panel
	rep    *telemetry.Reporter
	beep   *sound.Beep
	start  time.Time
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := newSim(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s.run()
	s.close()

	st := s.mgr.Game().Stats()
	fmt.Printf("%d rounds, %d goals, %d bumps\n", st.Round, st.Goals, st.Bumps)
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
	cfg, err := config.FromEnv(base)
	if err != nil {
		return cfg, err
	}

	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *auto {
		cfg.AutoAdvance = true
	}
	if *mute {
		cfg.Mute = true
	}
	return cfg, nil
}

func newSim(cfg config.Config) (*sim, error) {
	setupLogging()

	s := &sim{
		frame:  hub75.NewFrame(),
		status: &termDisplay{},
		start:  time.Now(),
	}
	s.keys = newKeyboard(time.Now)
	s.panel = status.NewPanel(s.status)

	listeners := game.Listeners{s.panel}
	if !cfg.Mute {
		s.beep = sound.NewBeep()
		if err := s.beep.Init(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("[SIM] audio initialization failed: %v", err)
		} else {
			listeners = append(listeners, sound.Events{Player: s.beep})
		}
	}
	if *linkPath != "" {
		f, err := os.Create(*linkPath)
		if err != nil {
			return nil, err
		}
		link := protocol.NewStreamLink(f)
		if err := link.SendHello(); err != nil {
			return nil, err
		}
		s.rep = telemetry.New(link)
		listeners = append(listeners, s.rep)
	}

	core.SetTime(0)
	core.TimerInit()
	core.SetTimingEnabled(cfg.Timing)

	s.mgr = manager.NewManager(cfg, listeners)
	if s.rep != nil {
		s.rep.Attach(s.mgr.Game())
	}
	if *loadPath != "" {
		m, err := snapshot.Load(*loadPath)
		if err != nil {
			return nil, err
		}
		s.mgr.Game().Load(m)
	}

	pins := manager.Pins{JoyX: chanX, JoyY: chanY, Button: buttonPin}
	if err := s.mgr.Initialize(s.frame, s.keys, s.keys, pins); err != nil {
		return nil, err
	}
	s.mgr.SetPanel(s.panel)

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	s.screen = screen
	return s, nil
}

// setupLogging sends core debug output and log to -log, or nowhere while
// the terminal belongs to the screen
func setupLogging() {
	var w io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err == nil {
			w = f
		}
	}
	log.SetOutput(w)
	core.SetDebugWriter(func(msg string) {
		log.Println(msg)
	})
	core.SetDebugEnabled(*logPath != "")
}

func (s *sim) close() {
	s.mgr.Stop()
	if s.rep != nil {
		s.rep.Timing(core.TimingEvents(nil))
	}
	if s.beep != nil {
		s.beep.Close()
	}
	s.screen.Fini()
	core.DumpTimingRing()
}

// now maps wall time onto the core clock
func (s *sim) now() uint32 {
	return uint32(time.Since(s.start).Microseconds())
}

func (s *sim) run() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	core.SetTime(s.now())
	if err := s.mgr.Start(); err != nil {
		log.Printf("[SIM] start: %v", err)
		return
	}

	var lastDraw, lastBall time.Time
	for {
		select {
		case ev := <-events:
			if !s.handleEvent(ev) {
				return
			}
		default:
		}

		core.SetTime(s.now())
		core.ProcessTimers()
		s.mgr.Idle()

		now := time.Now()
		if s.rep != nil && now.Sub(lastBall) >= ballPeriod {
			s.rep.Ball(s.mgr.Game().Ball())
			lastBall = now
		}
		if now.Sub(lastDraw) >= drawPeriod {
			s.draw()
			lastDraw = now
		}
		time.Sleep(100 * time.Microsecond)
	}
}

func (s *sim) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		slow := ev.Modifiers()&tcell.ModShift != 0
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			s.keys.press()
		case tcell.KeyLeft:
			s.keys.push(-1, 0, slow)
		case tcell.KeyRight:
			s.keys.push(1, 0, slow)
		case tcell.KeyUp:
			s.keys.push(0, -1, slow)
		case tcell.KeyDown:
			s.keys.push(0, 1, slow)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				s.keys.release()
			case 'a', 'A':
				s.keys.push(-1, 0, ev.Rune() == 'A')
			case 'd', 'D':
				s.keys.push(1, 0, ev.Rune() == 'D')
			case 'w', 'W':
				s.keys.push(0, -1, ev.Rune() == 'W')
			case 's', 'S':
				s.keys.push(0, 1, ev.Rune() == 'S')
			}
		}

	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *sim) draw() {
	s.screen.Clear()
	drawFrame(s.screen, s.frame, 0, 0)
	s.status.draw(s.screen, 0, 33)

	st := s.mgr.Game().Stats()
	text := fmt.Sprintf("round %d  goals %d  bumps %d", st.Round, st.Goals, st.Bumps)
	if s.mgr.Game().AtGoal() && !s.mgr.Game().Pending() {
		text += "  - press Enter for the next maze"
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	drawText(s.screen, 66, 34, style, text)
	drawText(s.screen, 66, 36, style, "arrows/WASD move, Shift slow, Space center")
	drawText(s.screen, 66, 37, style, "Enter next round, q quit")
	if n, err := s.mgr.Errors(); n > 0 {
		drawText(s.screen, 66, 39, tcell.StyleDefault.Foreground(tcell.ColorRed),
			fmt.Sprintf("%d errors, last: %v", n, err))
	}
	s.screen.Show()
}

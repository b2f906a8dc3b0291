// Command arena-tui runs a simulation in process and draws the battlefield
// in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/server"
)

const frameInterval = 66 * time.Millisecond // ~15 FPS

type viewer struct {
	screen tcell.Screen
	sim    *server.Simulation
	scale  float64 // world units per terminal row
	status string
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	logPath := flag.String("log", "", "Write logs to this file")
	scale := flag.Float64("scale", 2, "World units per terminal row")
	flag.Parse()

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// The screen owns stdout, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot open log:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := server.NewLogger(cfg.LogLevel, logOut)
	log.SetDefault(logger)

	navigator, err := cfg.Navigator()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build battlefield:", err)
		os.Exit(1)
	}
	sim, err := server.NewSimulation(server.Options{
		Navigator: navigator,
		Logger:    logger,
		Seed:      cfg.Seed,
		Waves:     cfg.Waves,
		Match:     cfg.Match,
		Defenders: cfg.Defenders,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot create simulation:", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.Run(ctx)

	v := &viewer{screen: screen, sim: sim, scale: math.Max(*scale, 0.1), status: "s start  x stop  r reset  q quit"}
	v.run()
}

func (v *viewer) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			v.draw(v.sim.Snapshot())
		}
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 's':
			v.report("waves started", v.sim.StartWaves())
		case 'x':
			v.sim.StopWaves()
			v.status = "waves stopped"
		case 'r':
			v.report("round reset", v.sim.ResetRound())
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) report(ok string, err error) {
	if err != nil {
		v.status = err.Error()
		return
	}
	v.status = ok
}

// toScreen maps a world point to a cell. Terminal cells are about twice as
// tall as they are wide, so x is stretched by two.
func (v *viewer) toScreen(p game.Vec2, w, h int) (int, int) {
	x := w/2 + int(math.Round(2*p.X/v.scale))
	y := h/2 - int(math.Round(p.Y/v.scale))
	return x, y
}

func (v *viewer) draw(snap server.Snapshot) {
	v.screen.Clear()
	w, h := v.screen.Size()

	for _, sh := range snap.Shells {
		x, y := v.toScreen(sh.Pos, w, h)
		v.screen.SetContent(x, y, '*', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	for _, u := range snap.Units {
		x, y := v.toScreen(u.Pos, w, h)
		r, style := unitGlyph(u)
		v.screen.SetContent(x, y, r, nil, style)
	}

	waves := snap.Waves
	header := fmt.Sprintf("wave %d (%s)  next %d in %.0fs  hostiles %d  defenders %d",
		waves.Wave, waves.State, waves.NextCount, waves.NextWaveIn, waves.Live, waves.DefendersLeft)
	v.drawText(0, 0, header, tcell.StyleDefault.Bold(true))
	v.drawText(0, 1, fmt.Sprintf("%s  [%d-%d]", snap.Match.Message, snap.Match.DefenderWins, snap.Match.HostileWins),
		tcell.StyleDefault)
	v.drawText(0, h-1, v.status, tcell.StyleDefault.Foreground(tcell.ColorGray))

	v.screen.Show()
}

func (v *viewer) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func unitGlyph(u server.UnitSnapshot) (rune, tcell.Style) {
	if u.Status != game.StatusAlive {
		return 'x', tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
	switch u.Class {
	case game.ClassTank:
		if u.Pilot {
			return 'P', tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
		}
		return 'T', tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	case game.ClassBrawler:
		return 'B', tcell.StyleDefault.Foreground(tcell.ColorPurple)
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorRed)
	if u.Charging {
		style = style.Reverse(true)
	}
	return 'A', style
}

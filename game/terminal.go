package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/renderer"
)

// RunTerminal renders the animation as half-block characters until the user quits.
// Esc, q and Ctrl-C quit.
func RunTerminal(cfg *config.Config, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	cols, rows := screen.Size()
	canvas := renderer.NewTerminalCanvas(cols, rows)
	g, err := NewGame(cfg, canvas, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	// PollEvent blocks; only forwarding happens off the loop goroutine
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Terminal.TargetFPS))
	defer ticker.Stop()

	g.Start()
	for !g.Done() {
		select {
		case ev, ok := <-events:
			if !ok || !handleTerminalEvent(g, ev) {
				slog.Info("terminal closed", "tick", g.Tick())
				return nil
			}
		case <-ticker.C:
			g.Step()
			canvas.Flush(screen)
			g.RecordPresent()
		}
	}
	return nil
}

// handleTerminalEvent applies one event and reports whether to keep running.
func handleTerminalEvent(g *Game, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := cellCentre(col, row)
		g.Pointer().Move(x, y)
	case *tcell.EventFocus:
		// Terminals send no leave event for the mouse; the pointer stays at its
		// last cell until focus is lost
		if !ev.Focused {
			g.Pointer().Leave()
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		g.RequestResize(cols*renderer.CellPixels, rows*2*renderer.CellPixels)
	}
	return true
}

// cellCentre returns the canvas pixel at the centre of a terminal cell.
func cellCentre(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * renderer.CellPixels, (float64(row) + 0.5) * 2 * renderer.CellPixels
}

// Package terminal renders the three serial lines as a logic-analyzer
// style scope in the terminal, using tcell.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/ramenspazz/Pico-I2S/picoi2s/backend"
	"github.com/ramenspazz/Pico-I2S/picoi2s/pio"
)

const (
	// maxEvents bounds the transition history kept for rendering.
	maxEvents = 1 << 14

	laneHigh = '▔'
	laneLow  = '▁'
	laneEdge = '│'
)

// Backend implements the backend interface as a tcell waveform viewer.
type Backend struct {
	config    backend.Config
	callbacks backend.Callbacks

	screen  tcell.Screen
	events  chan tcell.Event
	running bool

	history []backend.TraceEvent
	// baseLevels holds each traced pin's level just before history begins,
	// maintained as old events are evicted.
	baseLevels map[pio.Pin]bool

	frameCount uint64
	lastBlock  *backend.Block
}

func New() *Backend {
	return &Backend{
		baseLevels: make(map[pio.Pin]bool),
	}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.callbacks = config.Callbacks

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	t.screen = screen
	t.running = true
	t.events = make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			t.events <- ev
		}
	}()

	return nil
}

func (t *Backend) Update(block *backend.Block) error {
	if !t.running {
		return nil
	}

	t.pollInput()
	t.absorb(block)
	t.render(block)
	return nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.running = false
		t.screen.Fini()
		t.screen = nil
	}
	return nil
}

func (t *Backend) pollInput() {
	for {
		select {
		case ev := <-t.events:
			if key, ok := ev.(*tcell.EventKey); ok {
				switch {
				case key.Key() == tcell.KeyEscape,
					key.Key() == tcell.KeyCtrlC,
					key.Rune() == 'q':
					t.running = false
					if t.callbacks.OnQuit != nil {
						t.callbacks.OnQuit()
					}
				}
			}
		default:
			return
		}
	}
}

// absorb folds a block's trace into the bounded history.
func (t *Backend) absorb(block *backend.Block) {
	t.frameCount += uint64(len(block.Frames))
	t.lastBlock = block
	t.history = append(t.history, block.Trace...)
	if len(t.history) > maxEvents {
		evicted := t.history[:len(t.history)-maxEvents]
		for _, e := range evicted {
			t.baseLevels[e.Pin] = e.Level
		}
		t.history = append(t.history[:0:0], t.history[len(t.history)-maxEvents:]...)
	}
}

func (t *Backend) render(block *backend.Block) {
	t.screen.Clear()
	width, height := t.screen.Size()
	if width < 20 || height < 10 {
		t.screen.Show()
		return
	}

	style := tcell.StyleDefault
	t.drawText(0, 0, style.Bold(true), "pico-i2s scope")
	t.drawText(0, 1, style, fmt.Sprintf("frames %d  table wraps %d  base ticks %d  [q to quit]",
		t.frameCount, block.Wraps, block.Tick))

	lanes := []struct {
		label string
		pin   pio.Pin
	}{
		{"DATA", t.config.DataPin},
		{"BCK ", t.config.BitClockPin},
		{"LRCK", t.config.WordClockPin},
	}
	for i, lane := range lanes {
		row := 3 + i*2
		t.drawText(0, row, style, lane.label)
		t.drawLane(6, row, width-6, lane.pin)
	}

	if len(block.Frames) > 0 {
		last := block.Frames[len(block.Frames)-1]
		t.drawText(0, 10, style, fmt.Sprintf("last frame  L=%11d  R=%11d", last.Left, last.Right))
	}
	t.screen.Show()
}

// drawLane renders one pin's recent transitions across cols columns, each
// column covering an equal slice of the history window.
func (t *Backend) drawLane(x, y, cols int, pin pio.Pin) {
	if cols <= 0 || len(t.history) == 0 {
		return
	}
	first := t.history[0].Tick
	last := t.history[len(t.history)-1].Tick
	if last <= first {
		return
	}
	span := last - first
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	level := t.baseLevels[pin]
	idx := 0
	for col := 0; col < cols; col++ {
		colStart := first + span*uint64(col)/uint64(cols)
		colEnd := first + span*uint64(col+1)/uint64(cols)
		toggled := false
		for idx < len(t.history) && t.history[idx].Tick < colEnd {
			if t.history[idx].Pin == pin {
				if t.history[idx].Tick >= colStart && t.history[idx].Level != level {
					toggled = true
				}
				level = t.history[idx].Level
			}
			idx++
		}
		ch := laneLow
		if toggled {
			ch = laneEdge
		} else if level {
			ch = laneHigh
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
	}
}

func (t *Backend) drawText(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

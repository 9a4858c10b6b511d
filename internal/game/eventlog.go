package game

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
)

const (
	eventLogMaxEntries = 40
	eventLogLineHeight = 16 // DebugPrint's font is 6x16
	eventLogWidth      = 360
	eventLogVisible    = 8
)

// EventEntry is one line of the on-screen event log.
type EventEntry struct {
	Frame   int
	Level   logrus.Level
	Message string
}

// EventLog is a ring buffer of recent log lines drawn over the map. It is a
// logrus hook, so everything the game logs at info or above shows up in it.
type EventLog struct {
	mu      sync.Mutex
	entries []EventEntry
	head    int
	count   int
	frame   func() int
}

// NewEventLog creates an event log. frame stamps each entry; nil stamps 0.
func NewEventLog(frame func() int) *EventLog {
	return &EventLog{
		entries: make([]EventEntry, eventLogMaxEntries),
		frame:   frame,
	}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(level logrus.Level, msg string) {
	el.mu.Lock()
	defer el.mu.Unlock()
	f := 0
	if el.frame != nil {
		f = el.frame()
	}
	el.entries[el.head] = EventEntry{Frame: f, Level: level, Message: msg}
	el.head = (el.head + 1) % eventLogMaxEntries
	if el.count < eventLogMaxEntries {
		el.count++
	}
}

// Recent returns entries oldest first.
func (el *EventLog) Recent() []EventEntry {
	el.mu.Lock()
	defer el.mu.Unlock()
	result := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + eventLogMaxEntries) % eventLogMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Levels implements logrus.Hook.
func (el *EventLog) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

// Fire implements logrus.Hook. Fields are appended as key=value in key order.
func (el *EventLog) Fire(e *logrus.Entry) error {
	el.Add(e.Level, formatEntry(e.Message, e.Data))
	return nil
}

func formatEntry(msg string, data logrus.Fields) string {
	if len(data) == 0 {
		return msg
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, data[k])
	}
	return sb.String()
}

// Draw renders the newest entries in a panel anchored to the bottom-left.
func (el *EventLog) Draw(screen *ebiten.Image) {
	entries := el.Recent()
	if len(entries) > eventLogVisible {
		entries = entries[len(entries)-eventLogVisible:]
	}
	if len(entries) == 0 {
		return
	}
	h := screen.Bounds().Dy()
	panelH := len(entries)*eventLogLineHeight + 8
	top := h - panelH

	vector.FillRect(screen, 0, float32(top), eventLogWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 200}, false)
	vector.StrokeLine(screen, 0, float32(top), eventLogWidth, float32(top), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	y := top + 4
	for _, e := range entries {
		if e.Level <= logrus.WarnLevel {
			vector.FillRect(screen, 2, float32(y+4), 3, 8, color.RGBA{R: 210, G: 70, B: 70, A: 255}, false)
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Frame, e.Message), 8, y)
		y += eventLogLineHeight
	}
}

package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

const EventSchemaVersion = 1

type ErrorObject struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Event is one line of the output stream. Build output is carried by "log" events
// whose data holds the line category and the stream it came from.
type Event struct {
	V     int          `json:"version"`
	TS    string       `json:"timestamp"`
	Cmd   string       `json:"command"`
	Type  string       `json:"type"`
	Level string       `json:"level,omitempty"`
	Code  string       `json:"code,omitempty"`
	Msg   string       `json:"message,omitempty"`
	Data  any          `json:"data,omitempty"`
	Err   *ErrorObject `json:"error,omitempty"`
}

func NowTS() string { return time.Now().UTC().Format(time.RFC3339Nano) }

type Emitter interface {
	Emit(ev Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(ev Event) { f(ev) }

type NDJSONEmitter struct {
	mu      sync.Mutex
	w       io.Writer
	version int
}

func NewNDJSONEmitter(w io.Writer, version int) *NDJSONEmitter {
	if version <= 0 {
		version = EventSchemaVersion
	}
	return &NDJSONEmitter{w: w, version: version}
}

func (e *NDJSONEmitter) Emit(ev Event) {
	if ev.V == 0 {
		ev.V = e.version
	}
	if ev.TS == "" {
		ev.TS = NowTS()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := json.Marshal(ev)
	if err != nil {
		// Last resort: emit a minimal JSON line.
		fmt.Fprintf(e.w, "{\"version\":%d,\"timestamp\":\"%s\",\"command\":\"%s\",\"type\":\"error\",\"message\":\"failed to encode event: %v\"}\n", e.version, NowTS(), ev.Cmd, err)
		return
	}
	e.w.Write(b)
	e.w.Write([]byte("\n"))
}

type TextEmitter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTextEmitter(w io.Writer) *TextEmitter { return &TextEmitter{w: w} }

func (e *TextEmitter) Emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.Type == "result" {
		return
	}
	// Build output is printed as-is, its own [TAG] already says the level.
	if ev.Type == "log" {
		if _, ok := LineCategory(ev); ok {
			fmt.Fprintln(e.w, ev.Msg)
			return
		}
	}
	switch {
	case ev.Msg != "" && ev.Level != "" && ev.Level != "info":
		fmt.Fprintf(e.w, "[%s] %s\n", ev.Level, ev.Msg)
	case ev.Msg != "":
		fmt.Fprintln(e.w, ev.Msg)
	case ev.Err != nil:
		fmt.Fprintf(e.w, "error[%s]: %s\n", ev.Err.Code, ev.Err.Message)
	}
	if ev.Err != nil && ev.Err.Suggestion != "" {
		fmt.Fprintf(e.w, "  hint: %s\n", ev.Err.Suggestion)
	}
}

func emitMaybe(e Emitter, ev Event) {
	if e != nil {
		e.Emit(ev)
	}
}

func Status(cmd, msg string, data any) Event {
	return Event{V: EventSchemaVersion, TS: NowTS(), Cmd: cmd, Type: "status", Level: "info", Msg: msg, Data: data}
}

func Log(cmd, msg string) Event {
	return Event{V: EventSchemaVersion, TS: NowTS(), Cmd: cmd, Type: "log", Level: "info", Msg: msg}
}

// LogLineEvent carries one classified build output line.
func LogLineEvent(cmd string, line LogLine, stream string) Event {
	data := map[string]any{"category": line.Category.String()}
	if stream != "" {
		data["stream"] = stream
	}
	return Event{V: EventSchemaVersion, TS: NowTS(), Cmd: cmd, Type: "log", Level: line.Category.Level(), Msg: line.Text, Data: data}
}

// LineCategory recovers the category of an event built by LogLineEvent.
// It also accepts events that went through a JSON round trip.
func LineCategory(ev Event) (Category, bool) {
	var name string
	switch d := ev.Data.(type) {
	case map[string]any:
		name, _ = d["category"].(string)
	case map[string]string:
		name = d["category"]
	}
	if name == "" {
		return CategoryNormal, false
	}
	for _, c := range []Category{CategoryNormal, CategoryDebug, CategoryTrace, CategoryInfo, CategoryError, CategoryWarn} {
		if c.String() == name {
			return c, true
		}
	}
	return CategoryNormal, false
}

func Warn(cmd, msg string) Event {
	return Event{V: EventSchemaVersion, TS: NowTS(), Cmd: cmd, Type: "warning", Level: "warn", Msg: msg}
}

func Err(cmd string, eo ErrorObject) Event {
	return Event{V: EventSchemaVersion, TS: NowTS(), Cmd: cmd, Type: "error", Level: "error", Err: &eo, Msg: eo.Message}
}

func Result(cmd string, ok bool, data any) Event {
	status := "success"
	if !ok {
		status = "failure"
	}
	return Event{V: EventSchemaVersion, TS: NowTS(), Cmd: cmd, Type: "result", Level: "info", Data: map[string]any{"status": status, "data": data}}
}

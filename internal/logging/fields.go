package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("component", name) }
}

func SessionID(id string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("session_id", id) }
}

func RoundID(id string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("round_id", id) }
}

func Parameter(name string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("parameter", name) }
}

func Category(name string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("category", name) }
}

// Message is the raw driver statement.
func Message(msg string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("msg", msg) }
}

// Phase is the search phase inferred for a parameter (empty, probing, bisection, converged).
func Phase(phase string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("phase", phase) }
}

func Suggestion(v int) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Int("suggestion", v) }
}

func Zone(total, half int) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Int("zone_total", total).Int("zone_half", half) }
}

func Count(name string, n int) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Int(name, n) }
}

func Addr(addr string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("addr", addr) }
}

func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Int64("duration_ms", d.Milliseconds()) }
}

func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event { return e.Str("reason", reason) }
}

func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

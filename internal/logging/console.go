package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiGray   = "\x1b[90m"
)

// consoleHandler writes one line per record:
//
//	<ts> <LEVEL> <component>[/<stage>]: <msg> [file:line] key=value ...
type consoleHandler struct {
	out        *lockedWriter
	level      slog.Leveler
	fields     []slog.Attr
	prefix     string
	withSource bool
	color      bool
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsoleHandler(w io.Writer, level slog.Leveler, withSource, color bool) *consoleHandler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, withSource: withSource, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = make([]slog.Attr, 0, len(h.fields)+len(attrs))
	next.fields = append(next.fields, h.fields...)
	for _, attr := range attrs {
		next.fields = append(next.fields, qualify(h.prefix, attr))
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	pairs := make([]slog.Attr, 0, len(h.fields)+record.NumAttrs())
	pairs = append(pairs, h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		pairs = append(pairs, qualify(h.prefix, attr))
		return true
	})

	var component, stage string
	var b strings.Builder
	rest := make([]string, 0, len(pairs))
	for _, pair := range flatten(pairs) {
		switch {
		case pair.Key == FieldComponent && component == "":
			component = renderValue(pair.Value)
		case pair.Key == FieldStage && stage == "":
			stage = renderValue(pair.Value)
		case pair.Key != "":
			rest = append(rest, pair.Key+"="+renderValue(pair.Value))
		}
	}

	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(h.levelLabel(record.Level))
	b.WriteByte(' ')
	if component != "" || stage != "" {
		b.WriteString(strings.Trim(component+"/"+stage, "/"))
		b.WriteString(": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(msg)
	if h.withSource && record.PC != 0 {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, field := range rest {
		b.WriteByte(' ')
		b.WriteString(field)
	}
	b.WriteByte('\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := io.WriteString(h.out.w, b.String())
	return err
}

func (h *consoleHandler) levelLabel(level slog.Level) string {
	label, color := "DEBUG", ansiGray
	switch {
	case level >= slog.LevelError:
		label, color = "ERROR", ansiRed
	case level >= slog.LevelWarn:
		label, color = "WARN", ansiYellow
	case level >= slog.LevelInfo:
		label, color = "INFO", ansiCyan
	}
	if h.color {
		return color + label + ansiReset
	}
	return label
}

func qualify(prefix string, attr slog.Attr) slog.Attr {
	if prefix != "" && attr.Key != "" {
		attr.Key = prefix + attr.Key
	}
	return attr
}

// flatten expands group values into dotted keys.
func flatten(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()
		if attr.Value.Kind() != slog.KindGroup {
			out = append(out, attr)
			continue
		}
		prefix := ""
		if attr.Key != "" {
			prefix = attr.Key + "."
		}
		for _, member := range flatten(attr.Value.Group()) {
			out = append(out, qualify(prefix, member))
		}
	}
	return out
}

func renderValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		return v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

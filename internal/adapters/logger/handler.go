// Package logger implements ports.Logger on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/jman/internal/ui/output"
	"go.trai.ch/jman/internal/ui/style"
)

// ErrorKey is the attribute under which Logger.Error attaches the error value.
const ErrorKey = "error"

// ConsoleHandler writes one coloured entry per record for a terminal. A
// top-level ErrorKey attribute holding an error replaces the message with the
// error's cause chain.
type ConsoleHandler struct {
	out   *termenv.Output
	level slog.Leveler
	// fields holds the attributes added with WithAttrs, already rendered.
	fields []string
	group  string
}

// NewConsoleHandler returns a ConsoleHandler writing to w, stderr when w is nil.
// A nil level means slog.LevelInfo.
func NewConsoleHandler(w io.Writer, level slog.Leveler) *ConsoleHandler {
	if w == nil {
		w = os.Stderr
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{out: output.New(w), level: level}
}

// Enabled reports whether records at level are written.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	text := r.Message
	fields := append([]string(nil), h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		if err := h.attachedError(a); err != nil {
			text = formatErrorEntries(collectErrorEntries(err))
			return true
		}
		fields = appendAttr(fields, h.group, a)
		return true
	})
	if len(fields) > 0 {
		text += " " + strings.Join(fields, " ")
	}

	icon, color := levelStyle(r.Level)
	styled := h.out.String(icon + text).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = append([]string(nil), h.fields...)
	for _, a := range attrs {
		next.fields = appendAttr(next.fields, h.group, a)
	}
	return &next
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = qualify(h.group, name)
	return &next
}

// attachedError returns the error carried by a top-level ErrorKey attribute.
func (h *ConsoleHandler) attachedError(a slog.Attr) error {
	if h.group != "" || a.Key != ErrorKey || a.Value.Kind() != slog.KindAny {
		return nil
	}
	err, _ := a.Value.Any().(error)
	return err
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross + " ", termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning + " ", termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// appendAttr renders a as key=value, flattening groups into dotted keys.
func appendAttr(fields []string, group string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}
	if a.Value.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix = qualify(group, a.Key)
		}
		for _, member := range a.Value.Group() {
			fields = appendAttr(fields, prefix, member)
		}
		return fields
	}
	return append(fields, qualify(group, a.Key)+"="+a.Value.String())
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

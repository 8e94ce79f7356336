package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
)

// LogHandler writes one line per record: time, level, message and the
// attributes as key=value pairs.
type LogHandler struct {
	level      slog.Leveler
	add_source bool
	attrs      []slog.Attr
	group      string
	mu         *sync.Mutex
	out        io.Writer
}

func NewLogHandler(o io.Writer, opts *slog.HandlerOptions) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{
		out:        o,
		level:      level,
		add_source: opts.AddSource,
		mu:         &sync.Mutex{},
	}
}

func SetupLogging(config Config) {
	handler := NewLogHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.Level(config.Log.Level),
		AddSource: config.Log.AddSource,
	})
	slog.SetDefault(slog.New(handler))
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	new_h := *h
	new_h.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	new_h.attrs = append(new_h.attrs, h.attrs...)
	for _, a := range attrs {
		new_h.attrs = append(new_h.attrs, h._Qualify(a))
	}
	return &new_h
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	new_h := *h
	if h.group != "" {
		new_h.group = h.group + "." + name
	} else {
		new_h.group = name
	}
	return &new_h
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, r.Level.String()}
	if h.add_source && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		strs = append(strs, fmt.Sprintf("%s:%d", frame.File, frame.Line))
	}
	strs = append(strs, r.Message)

	for _, a := range h.attrs {
		strs = append(strs, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		a = h._Qualify(a)
		strs = append(strs, a.Key+"="+a.Value.String())
		return true
	})

	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(b)
	return err
}

func (h *LogHandler) _Qualify(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

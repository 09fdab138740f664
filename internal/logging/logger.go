// Package logging is the leveled log sink used by the simulation driver.
//
// Messages can be produced lazily: [Logger.Log] takes a function that is
// only called when the level is enabled, so expensive dumps (a rendered
// lattice, say) cost nothing at the default level. The driver logs at run
// and repeat granularity only, never from inside a timestep.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type Level = log.Level

const (
	DebugLevel = log.DebugLevel
	// VerboseLevel sits between debug and info, for per-repeat progress.
	VerboseLevel Level = log.DebugLevel + 2
	InfoLevel          = log.InfoLevel
	WarnLevel          = log.WarnLevel
	ErrorLevel         = log.ErrorLevel
)

type Logger interface {
	Log(level Level, msg func() string)
	Info(format string, args ...any)
	Verbose(format string, args ...any)
	Debug(format string, args ...any)
	Enabled(level Level) bool
}

// ParseLevel maps a level name to a Level. Names are case-insensitive;
// "verbose" is accepted alongside the charmbracelet/log names. The empty
// string means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return InfoLevel, nil
	case "verbose", "verb":
		return VerboseLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return InfoLevel, fmt.Errorf("logging: unknown level %q", s)
	}
	return lvl, nil
}

// Charm is a Logger backed by a charmbracelet/log logger.
type Charm struct {
	l *log.Logger
}

// New creates a leveled logger writing to w.
func New(w io.Writer, level Level) *Charm {
	l := log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "spinlab",
	})

	styles := log.DefaultStyles()
	styles.Levels[VerboseLevel] = lipgloss.NewStyle().
		SetString("VERB").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("75"))
	l.SetStyles(styles)

	return &Charm{l: l}
}

func (c *Charm) Enabled(level Level) bool {
	return level >= c.l.GetLevel()
}

func (c *Charm) Log(level Level, msg func() string) {
	if !c.Enabled(level) {
		return
	}
	c.l.Log(level, msg())
}

func (c *Charm) Info(format string, args ...any) {
	c.l.Logf(InfoLevel, format, args...)
}

func (c *Charm) Verbose(format string, args ...any) {
	if !c.Enabled(VerboseLevel) {
		return
	}
	c.l.Logf(VerboseLevel, format, args...)
}

func (c *Charm) Debug(format string, args ...any) {
	c.l.Logf(DebugLevel, format, args...)
}

// SetLevel changes the threshold at runtime.
func (c *Charm) SetLevel(level Level) { c.l.SetLevel(level) }

// Underlying exposes the charmbracelet/log logger for callers that want
// structured key/value output.
func (c *Charm) Underlying() *log.Logger { return c.l }

type nop struct{}

// Discard returns a Logger that drops everything without calling message
// producers.
func Discard() Logger { return nop{} }

func (nop) Log(Level, func() string) {}
func (nop) Info(string, ...any)      {}
func (nop) Verbose(string, ...any)   {}
func (nop) Debug(string, ...any)     {}
func (nop) Enabled(Level) bool       { return false }

package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/phanxgames/join"
)

// Line kinds passed to Options.Style.
const (
	KindTitle  = "title"
	KindEnter  = "enter"
	KindUpdate = "update"
	KindExit   = "exit"
	KindClock  = "clock"
)

// Options configures a Runner.
type Options struct {
	// Out receives the dump lines. Defaults to io.Discard.
	Out io.Writer

	// Debug turns on the engine's debug mode, logging to Out.
	Debug bool

	// Style decorates a line before it is written. kind is one of the Kind
	// constants. Nil writes lines as is.
	Style func(kind, line string) string

	// Events is forwarded to the engine.
	Events join.EventSink
}

// Runner executes a Script against a fresh engine, one step per call to
// Step.
type Runner struct {
	script    *Script
	eng       *Engine
	opts      Options
	cursor    int
	waitCount int
	done      bool
}

// NewRunner creates a runner for script with a new engine.
func NewRunner(script *Script, opts Options) (*Runner, error) {
	if script == nil {
		return nil, errors.New("scenario: nil script")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	eng, err := NewEngine(join.Config[Person, int, *Bar]{
		Events:      opts.Events,
		Debug:       opts.Debug,
		DebugOutput: opts.Out,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &Runner{script: script, eng: eng, opts: opts}, nil
}

// Engine returns the engine the runner drives.
func (r *Runner) Engine() *Engine { return r.eng }

// Done reports whether every step has been executed.
func (r *Runner) Done() bool { return r.done }

// Step executes the next action, or one frame of a pending wait.
func (r *Runner) Step() error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.eng.Advance(r.script.FrameDt)
		r.finishIfLast()
		return nil
	}
	if r.cursor >= len(r.script.Steps) {
		r.done = true
		return nil
	}

	st := r.script.Steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case ActionBind:
		err = r.bind(st)
	case ActionAdvance:
		r.advance(st)
	case ActionDump:
		r.dump(st.Label)
	case ActionWait:
		if st.Frames > 0 {
			r.eng.Advance(r.script.FrameDt)
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		err = fmt.Errorf("unknown action %q", st.Action)
	}
	if err != nil {
		return fmt.Errorf("step %d (%s): %w", r.cursor-1, st.Action, err)
	}
	r.finishIfLast()
	return nil
}

func (r *Runner) finishIfLast() {
	if r.cursor >= len(r.script.Steps) && r.waitCount == 0 {
		r.done = true
	}
}

// Run executes steps until the script is done, an error occurs or ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) error {
	for !r.done {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// bind applies a batch and the standard recipe: exiting bars shrink to zero
// and are removed; entering bars are appended at their position, start at
// pos*10 and grow to pos*20. Both transitions use the script's timing.
func (r *Runner) bind(st Step) error {
	if st.Label != "" {
		r.println(KindTitle, st.Label)
	}
	if _, err := r.eng.Bind(st.Batch); err != nil {
		return err
	}
	s := r.script

	exit := join.Tween(r.eng.Exit().Transition().Delay(s.Delay).Duration(s.Duration).EaseNamed(s.Ease),
		Width, join.Const[Person](float32(0))).Remove()
	if err := exit.Err(); err != nil {
		return err
	}

	enter := r.eng.Enter().Append(func(p Person, pos int) *Bar {
		b := NewBar()
		b.X0, b.Y0 = pos, p.Key
		return b
	})
	enter = join.Set(enter, Width, func(_ Person, pos int) float32 { return float32(pos) * 10 })
	tr := enter.Transition().Delay(s.Delay).Duration(s.Duration).EaseNamed(s.Ease)
	join.Tween(tr, Width, func(_ Person, pos int) float32 { return float32(pos) * 20 })
	return tr.Err()
}

func (r *Runner) advance(st Step) {
	frames := max(st.Frames, 1)
	for range frames {
		r.eng.Advance(st.Dt)
		r.println(KindClock, fmt.Sprintf("advance %.3f -> clock %.3f (%s)", st.Dt, r.eng.Clock(), r.eng.ClockState()))
	}
}

// dump prints the enter, update and exit selections.
func (r *Runner) dump(title string) {
	if title != "" {
		r.println(KindTitle, title)
	}
	line := func(kind string) func(Person, *Bar) {
		return func(p Person, b *Bar) {
			r.println(kind, FormatLine(kind, p, b))
		}
	}
	r.eng.Enter().Each(line(KindEnter))
	r.eng.Update().Each(line(KindUpdate))
	r.eng.Exit().Each(line(KindExit))
}

// FormatLine renders one subject and its bar as a dump line.
func FormatLine(kind string, p Person, b *Bar) string {
	return fmt.Sprintf("  %-7s: %-16s %dx%d %1.3f", kind, p.Name, b.X0, b.Y0, b.K)
}

func (r *Runner) println(kind, line string) {
	if r.opts.Style != nil {
		line = r.opts.Style(kind, line)
	}
	_, _ = fmt.Fprintln(r.opts.Out, line)
}

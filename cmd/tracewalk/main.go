// Command tracewalk inspects Wasm backtrace captures over synthetic stacks.
//
// It fabricates a stack image with a chosen call shape, runs a real capture
// over it, and shows the resulting frames region by region. Useful for
// eyeballing walker behavior on nested Wasm->host->Wasm shapes without a
// code generator in the loop.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/kpreisser/wasmtime/errors"
	"github.com/kpreisser/wasmtime/stackimage"
	"github.com/kpreisser/wasmtime/trap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	regionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	vacuousStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	addrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	var (
		shape       = flag.String("shape", "2,0,3", "Frames per call level, innermost first; 0 marks a host call that never entered Wasm")
		stopAfter   = flag.Int("stop", 0, "Stop the capture after N frames (0 = walk everything)")
		trapped     = flag.Bool("trap", false, "Capture as if a hardware trap interrupted the innermost frame")
		verbose     = flag.Bool("v", false, "Log the walk at debug level")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		trap.SetLogger(log)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*shape); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*shape, *stopAfter, *trapped); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseShape turns "2,0,3" into frame counts, innermost first.
func parseShape(shape string) ([]int, error) {
	parts := strings.Split(shape, ",")
	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New(errors.PhaseTool, errors.KindInvalidInput).
				Detail("bad frame count %q in shape", p).
				Cause(err).
				Build()
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func buildStack(shape string) (*stackimage.Image, *trap.ThreadState, error) {
	counts, err := parseShape(shape)
	if err != nil {
		return nil, nil, err
	}
	im, err := stackimage.New(counts...)
	if err != nil {
		return nil, nil, err
	}
	ts := trap.NewThreadState()
	im.Wire(ts)
	return im, ts, nil
}

func run(shape string, stopAfter int, trapped bool) error {
	im, ts, err := buildStack(shape)
	if err != nil {
		return err
	}

	var frames []trap.Frame
	visit := func(f trap.Frame) trap.Control {
		frames = append(frames, f)
		if stopAfter > 0 && len(frames) == stopAfter {
			return trap.Stop
		}
		return trap.Continue
	}

	if trapped {
		// A trap means the exit trampoline never recorded the innermost
		// frame; hand its pc/fp to the capture the way trap dispatch would.
		inner := im.Regions()[0]
		ts.Limits().LastWasmExitPC = 0
		ts.Limits().LastWasmExitFP = 0
		trap.WalkTrap(ts, inner.ExitPC, inner.ExitFP, visit)
	} else {
		trap.Walk(ts, visit)
	}

	fmt.Println(titleStyle.Render("tracewalk"), "shape", shape)
	fmt.Println()
	fmt.Print(renderWalk(im, frames, len(frames)))
	return nil
}

// renderWalk shows frames grouped by the region they came from, innermost
// region first, revealing only the first shown frames.
func renderWalk(im *stackimage.Image, frames []trap.Frame, shown int) string {
	var b strings.Builder

	next := 0
	for i, r := range im.Regions() {
		if r.EntrySP == 0 {
			fmt.Fprintf(&b, "%s\n", vacuousStyle.Render(fmt.Sprintf("call level %d: never entered wasm", i)))
			continue
		}

		fmt.Fprintf(&b, "%s  entry_sp=%s\n",
			regionStyle.Render(fmt.Sprintf("region %d (%d frames)", i, len(r.PCs))),
			addrStyle.Render(fmt.Sprintf("%#x", r.EntrySP)))

		for range r.PCs {
			if next >= shown || next >= len(frames) {
				break
			}
			f := frames[next]
			fmt.Fprintf(&b, "  %2d: pc=%s fp=%s\n", next,
				addrStyle.Render(fmt.Sprintf("%#016x", f.PC())),
				addrStyle.Render(fmt.Sprintf("%#016x", f.FP())))
			next++
		}
	}

	if total, _ := im.Frames(); next < len(total) {
		b.WriteString(vacuousStyle.Render(fmt.Sprintf("... %d of %d frames\n", next, len(total))))
	}
	fmt.Fprintf(&b, "\n%d frames captured\n", len(frames))
	return b.String()
}

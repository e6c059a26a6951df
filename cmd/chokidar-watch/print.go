package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	isatty "github.com/mattn/go-isatty"

	"github.com/electric-eloquence/chokidar"
)

// colorEnabled mirrors the teacher's cmd/terminal_posix.go pairing of
// mattn/go-isatty with fatih/color: colorized output is only useful (and
// only expected) when standard output is actually a terminal.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func init() {
	color.NoColor = !colorEnabled
}

// eventColor returns the color function used to print a given event type,
// following the same "verbs colored by severity/kind" convention the
// teacher's monitor.go uses for session status flags.
func eventColor(t chokidar.EventType) func(format string, a ...interface{}) string {
	switch t {
	case chokidar.EventAdd, chokidar.EventAddDir:
		return color.GreenString
	case chokidar.EventChange:
		return color.CyanString
	case chokidar.EventUnlink, chokidar.EventUnlinkDir:
		return color.YellowString
	case chokidar.EventError:
		return color.RedString
	case chokidar.EventReady:
		return color.BlueString
	default:
		return color.WhiteString
	}
}

// printEvent writes a single colorized line for ev to standard output.
func printEvent(ev chokidar.Event) {
	label := eventColor(ev.Type)("%-10s", ev.Type.String())
	switch ev.Type {
	case chokidar.EventReady:
		fmt.Println(label)
	case chokidar.EventError:
		fmt.Println(label, ev.Err)
	case chokidar.EventRaw:
		fmt.Printf("%s %s [%s]\n", label, ev.Path, ev.RawKind)
	default:
		fmt.Println(label, ev.Path)
	}
}

// printVerboseStatus prints a human-readable summary of the effective
// watcher configuration, humanizing the interval fields the way a
// --verbose flag elsewhere in the pack might humanize byte counts.
func printVerboseStatus(opts chokidar.Options) {
	mode := "native (event-driven)"
	if opts.UsePolling {
		mode = fmt.Sprintf("polling every %s", humanizeDuration(opts.Interval))
		if opts.EnableBinaryInterval {
			mode += fmt.Sprintf(" (%s for binary files)", humanizeDuration(opts.BinaryInterval))
		}
	}
	fmt.Fprintln(os.Stderr, color.BlueString("watch mode:"), mode)
	fmt.Fprintln(os.Stderr, color.BlueString("follow symlinks:"), opts.FollowSymlinks)
	fmt.Fprintln(os.Stderr, color.BlueString("ignore initial:"), opts.IgnoreInitial)
	if opts.Depth >= 0 {
		fmt.Fprintln(os.Stderr, color.BlueString("depth limit:"), opts.Depth)
	} else {
		fmt.Fprintln(os.Stderr, color.BlueString("depth limit:"), "unlimited")
	}
}

// humanizeDuration renders a time.Duration as an approximate, human-readable
// string via go-humanize's relative-time formatter.
func humanizeDuration(d time.Duration) string {
	return humanize.RelTime(time.Now(), time.Now().Add(d), "", "")
}

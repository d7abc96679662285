// Package common provides shared helpers for the warpsession commands:
// the response progress bar, help and version output, error formatting and
// table cell padding.
package common

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// VersionCmdStr holds the version string printed by the version command.
// Execute fills it with the build information.
var VersionCmdStr string

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// InitBar creates the progress bar of a response body written to a file.
// A cLength of zero or less leaves the total open until the bar is
// completed with SetTotal(-1, true).
func InitBar(p *mpb.Progress, prefix string, cLength int64) *mpb.Bar {
	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")

	name := prefix + "Receiving"
	bar := p.New(0,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WC{W: 4}), "Complete",
			),
		),
		mpb.AppendDecorators(
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f", 30),
		),
	)
	if cLength > 0 {
		bar.SetTotal(cLength, false)
		bar.EnableTriggerComplete()
	}
	return bar
}

// Help displays the application help, or the help of the command named by
// the first argument.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	return showCommandHelp(ctx, arg)
}

// GetVersion prints VersionCmdStr.
func GetVersion(ctx *cli.Context) error {
	fmt.Println(VersionCmdStr)
	return nil
}

// RuntimeErr is a failure of one step of a command.
type RuntimeErr struct {
	Cmd    string
	Action string
	Err    error
}

// NewRuntimeErr wraps err as the failure of action while running cmd.
func NewRuntimeErr(cmd, action string, err error) error {
	if err == nil {
		return nil
	}
	return &RuntimeErr{Cmd: cmd, Action: action, Err: err}
}

func (e *RuntimeErr) Error() string {
	return fmt.Sprintf("%s[%s]: %s", e.Cmd, e.Action, e.Err.Error())
}

func (e *RuntimeErr) Unwrap() error {
	return e.Err
}

// PrintErrWithCmdHelp prints err followed by the help of the current
// command.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			err := showCommandHelp(ctx, ctx.Command.Name)
			if err != nil {
				fmt.Println(err.Error())
			}
		},
	)
}

// PrintErrWithHelp prints err followed by the application help and exits
// with status 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			showAppHelpAndExit(ctx, 1)
		},
	)
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	estr := strings.ToLower(err.Error())
	if estr == "flag: help requested" {
		return Help(ctx)
	}
	if strings.Contains(estr, "-version") {
		return GetVersion(ctx)
	}
	fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError callback of the app and its
// commands.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}

// Beaut centers s within a field of width n. Strings longer than n are
// cut and end with "...".
func Beaut(s string, n int) (b string) {
	if len(s) > n {
		if n <= 3 {
			return s[:n]
		}
		return s[:n-3] + "..."
	}
	x := n - len(s)
	w := string(replic(' ', x/2))
	b = w + s + w
	if x%2 != 0 {
		b += " "
	}
	return
}

func replic[aT any](v aT, n int) []aT {
	a := make([]aT, n)
	for i := range a {
		a[i] = v
	}
	return a
}

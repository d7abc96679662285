package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/warpdl/warpsession/cmd/common"
	"github.com/warpdl/warpsession/internal/cookies"
	"github.com/warpdl/warpsession/pkg/cookiestore"
)

var (
	importFromFile    = cookies.Import
	importFromBrowser = cookies.DetectBrowser
)

func cookiesList(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	e, err := openEnv(ctx)
	if err != nil {
		return common.NewRuntimeErr("list", "open_store", err)
	}
	defer e.close()

	var list []*cookiestore.Cookie
	switch {
	case ctx.String("url") != "":
		u, err := url.Parse(ctx.String("url"))
		if err != nil {
			return common.NewRuntimeErr("list", "parse_url", err)
		}
		list = e.store.Matches(u)
	case ctx.Bool("all"):
		list = e.store.All()
	default:
		list = e.store.Unexpired()
	}
	if len(list) == 0 {
		fmt.Fprintln(stdout, "warpsession: no cookies found")
		return nil
	}
	fmt.Fprintln(stdout, cookieTable(list, ctx.Bool("show-values")))
	return nil
}

const (
	domainW  = 24
	pathW    = 12
	nameW    = 16
	expiresW = 19
	flagsW   = 5
	valueW   = 24
)

// cookieTable renders list. Flags: S secure, H http-only, D sent to
// subdomains.
func cookieTable(list []*cookiestore.Cookie, showValues bool) string {
	cols := []string{
		common.Beaut("Domain", domainW),
		common.Beaut("Path", pathW),
		common.Beaut("Name", nameW),
		common.Beaut("Expires", expiresW),
		common.Beaut("Flags", flagsW),
	}
	widths := []int{domainW, pathW, nameW, expiresW, flagsW}
	if showValues {
		cols = append(cols, common.Beaut("Value", valueW))
		widths = append(widths, valueW)
	}
	rowWidth := 1
	seps := make([]string, len(widths))
	for i, w := range widths {
		rowWidth += w + 3
		seps[i] = strings.Repeat("-", w+2)
	}

	var b strings.Builder
	b.WriteString("Stored cookies:\n\n")
	b.WriteString(strings.Repeat("-", rowWidth))
	b.WriteString("\n| " + strings.Join(cols, " | ") + " |")
	b.WriteString("\n|" + strings.Join(seps, "|") + "|")
	for _, c := range list {
		expires := "session"
		if c.Persistent() {
			expires = c.Expires.Local().Format("2006-01-02 15:04:05")
		}
		row := []string{
			common.Beaut(c.Domain, domainW),
			common.Beaut(c.Path, pathW),
			common.Beaut(c.Name, nameW),
			common.Beaut(expires, expiresW),
			common.Beaut(cookieFlags(c), flagsW),
		}
		if showValues {
			row = append(row, common.Beaut(c.Value, valueW))
		}
		b.WriteString("\n| " + strings.Join(row, " | ") + " |")
	}
	b.WriteString("\n" + strings.Repeat("-", rowWidth))
	return b.String()
}

func cookieFlags(c *cookiestore.Cookie) string {
	f := []byte("---")
	if c.Secure {
		f[0] = 'S'
	}
	if c.HttpOnly {
		f[1] = 'H'
	}
	if !c.HostOnly {
		f[2] = 'D'
	}
	return string(f)
}

func cookiesClear(ctx *cli.Context) error {
	if !confirm("cookies clear", ctx.Bool("force")) {
		return nil
	}
	e, err := openEnv(ctx)
	if err != nil {
		return common.NewRuntimeErr("clear", "open_store", err)
	}
	defer e.close()

	n := len(e.store.All())
	e.store.Clear()
	if err := e.save(); err != nil {
		return common.NewRuntimeErr("clear", "save_store", err)
	}
	fmt.Fprintf(stdout, "Cleared %d cookies!\n", n)
	return nil
}

// confirm asks on stdin before a destructive action unless force is set.
func confirm(action string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(stdout, "Are you sure you want to proceed with the %s command? (yes/no): ", action)
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y", "true", "1":
		return true
	default:
		fmt.Fprintf(stdout, "Cancelled %s operation!\n", action)
		return false
	}
}

func cookiesImport(ctx *cli.Context) error {
	src := ctx.Args().First()
	if src == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no cookie store path provided"))
	}
	e, err := openEnv(ctx)
	if err != nil {
		return common.NewRuntimeErr("import", "open_store", err)
	}
	defer e.close()

	domain := ctx.String("domain")
	var (
		list   []*cookiestore.Cookie
		source *cookies.Source
	)
	if src == "auto" {
		list, source, err = importFromBrowser(domain, e.log)
	} else {
		list, source, err = importFromFile(src, domain, e.log)
	}
	if err != nil {
		return common.NewRuntimeErr("import", "read_cookies", err)
	}
	n := cookies.Seed(e.store, list)
	if err := e.save(); err != nil {
		return common.NewRuntimeErr("import", "save_store", err)
	}
	fmt.Fprintf(stdout, "Imported %d cookies from %s\n", n, source.Browser)
	return nil
}

func cookiesExport(ctx *cli.Context) error {
	format := strings.ToLower(ctx.String("format"))
	if format != "jsonl" && format != "netscape" {
		return common.PrintErrWithCmdHelp(ctx, fmt.Errorf("unknown export format %q", format))
	}
	e, err := openEnv(ctx)
	if err != nil {
		return common.NewRuntimeErr("export", "open_store", err)
	}
	defer e.close()

	var w io.Writer = stdout
	if out := ctx.String("output"); out != "" {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return common.NewRuntimeErr("export", "create_file", err)
		}
		defer f.Close()
		w = f
	}
	if format == "netscape" {
		err = e.store.SaveNetscape(w)
	} else {
		err = e.store.SaveJSON(w)
	}
	if err != nil {
		return common.NewRuntimeErr("export", "write", err)
	}
	return nil
}

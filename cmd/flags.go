package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/warpdl/warpsession/pkg/persist"
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config",
		Usage: "path to the config file (default: <config dir>/config.yaml)",
	},
	cli.StringFlag{
		Name:  "store, s",
		Usage: "path to the cookie store",
	},
	cli.StringFlag{
		Name:  "backend, b",
		Usage: fmt.Sprintf("cookie store backend, one of %v", persist.Kinds()),
	},
	cli.StringFlag{
		Name:  "proxy, x",
		Usage: "http, https or socks5 proxy url",
	},
	cli.StringFlag{
		Name:  "user-agent, u",
		Usage: "User-Agent sent with every request",
	},
	cli.IntFlag{
		Name:  "max-redirects",
		Usage: "redirect hops followed by the session, 0 disables following",
	},
	cli.BoolFlag{
		Name:  "verbose, V",
		Usage: "log skipped cookies and store activity to stderr",
	},
}

var requestFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "header, H",
		Usage: `extra request header as "Key: Value", may be repeated`,
	},
	cli.StringFlag{
		Name:  "data, d",
		Usage: "request body, @file reads it from a file",
	},
	cli.StringFlag{
		Name:  "content-type",
		Usage: "Content-Type of the request body (default: application/x-www-form-urlencoded)",
	},
	cli.BoolFlag{
		Name:  "include, i",
		Usage: "print the response status line and headers",
	},
	cli.StringFlag{
		Name:  "output, o",
		Usage: "write the response body to a file with a progress bar",
	},
	cli.BoolFlag{
		Name:  "no-save",
		Usage: "do not save cookies set by the response",
	},
}

var (
	lsFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "url",
			Usage: "only list the cookies that would be sent to this url",
		},
		cli.BoolFlag{
			Name:  "all, a",
			Usage: "include expired cookies (default: false)",
		},
		cli.BoolFlag{
			Name:  "show-values",
			Usage: "print cookie values (default: false)",
		},
	}

	clearFlags = []cli.Flag{
		cli.BoolFlag{
			Name:  "force, f",
			Usage: "use this flag to clear without confirmation (default: false)",
		},
	}

	importFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "domain",
			Usage: "only import cookies for this domain (default: all)",
		},
	}

	exportFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "format, f",
			Usage: "jsonl or netscape",
			Value: "jsonl",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "file to write (default: stdout)",
		},
	}
)

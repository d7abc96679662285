package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli"

	"github.com/warpdl/warpsession/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

func requestCommand(method string, aliases ...string) cli.Command {
	name := strings.ToLower(method)
	return cli.Command{
		Name:                   name,
		Aliases:                aliases,
		Usage:                  fmt.Sprintf("send a %s request", method),
		UsageText:              name + " [command options] <url>",
		Description:            fmt.Sprintf(RequestDescription, name, method, name),
		CustomHelpTemplate:     CMD_HELP_TEMPL,
		OnUsageError:           common.UsageErrorCallback,
		Action:                 request(method),
		Flags:                  requestFlags,
		UseShortOptionHandling: true,
	}
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "warpsession",
		HelpName:              "warpsession",
		Usage:                 "HTTP requests with a persistent cookie session.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "warpsession [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Writer:                stdout,
		ErrWriter:             stderr,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			requestCommand(http.MethodGet, "g"),
			requestCommand(http.MethodHead),
			requestCommand(http.MethodDelete),
			requestCommand(http.MethodPost, "p"),
			requestCommand(http.MethodPut),
			requestCommand(http.MethodPatch),
			{
				Name:    "cookies",
				Aliases: []string{"c"},
				Usage:   "manage the stored cookies",
				Subcommands: []cli.Command{
					{
						Name:                   "list",
						Aliases:                []string{"ls"},
						Usage:                  "print the stored cookies",
						Description:            CookiesListDescription,
						CustomHelpTemplate:     CMD_HELP_TEMPL,
						OnUsageError:           common.UsageErrorCallback,
						Action:                 cookiesList,
						Flags:                  lsFlags,
						UseShortOptionHandling: true,
					},
					{
						Name:               "clear",
						Usage:              "delete every stored cookie",
						Description:        CookiesClearDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             cookiesClear,
						Flags:              clearFlags,
					},
					{
						Name:               "import",
						Usage:              "import cookies from a browser cookie store",
						UsageText:          "import [command options] <path|auto>",
						Description:        CookiesImportDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             cookiesImport,
						Flags:              importFlags,
					},
					{
						Name:               "export",
						Usage:              "write the persistent cookies to a file",
						Description:        CookiesExportDescription,
						CustomHelpTemplate: CMD_HELP_TEMPL,
						OnUsageError:       common.UsageErrorCallback,
						Action:             cookiesExport,
						Flags:              exportFlags,
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of warpsession",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}

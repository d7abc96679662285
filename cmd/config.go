package cmd

const DESCRIPTION = `
warpsession sends HTTP requests through a persistent cookie session.
Cookies set by responses are stored following RFC 6265 and attached
to later requests for the same site, across invocations.
`

const (
	RequestDescription = `The %s command sends a %s request through the cookie
session. Stored cookies that apply to the url are attached and the
cookies set by the response are saved afterwards.

Example:
        warpsession %s https://domain.com/api -H "Accept: application/json"

`
	CookiesListDescription = `The cookies list command prints the stored cookies.
Values are hidden unless --show-values is given.

Example:
        warpsession cookies list --url https://domain.com/

`
	CookiesClearDescription = `The cookies clear command deletes every stored cookie.

Example:
        warpsession cookies clear --force

`
	CookiesImportDescription = `The cookies import command copies cookies from a browser
cookie store (Firefox, Chrome or a Netscape cookies.txt file) into
the session store. Use "auto" to pick the first browser found.

Example:
        warpsession cookies import auto --domain domain.com

`
	CookiesExportDescription = `The cookies export command writes the persistent cookies
as JSON lines or in the Netscape cookies.txt format.

Example:
        warpsession cookies export --format netscape -o cookies.txt

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

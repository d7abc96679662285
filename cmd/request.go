package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/warpdl/warpsession/cmd/common"
	"github.com/warpdl/warpsession/pkg/httpclient"
	"github.com/warpdl/warpsession/pkg/session"
)

const defaultContentType = "application/x-www-form-urlencoded"

func request(method string) cli.ActionFunc {
	name := strings.ToLower(method)
	return func(ctx *cli.Context) error {
		rawURL := strings.TrimSpace(ctx.Args().First())
		if rawURL == "" {
			return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
		} else if rawURL == "help" {
			return cli.ShowCommandHelp(ctx, ctx.Command.Name)
		}
		headers, err := httpclient.ParseHeaderFlags(ctx.StringSlice("header"))
		if err != nil {
			return common.PrintErrWithCmdHelp(ctx, err)
		}
		prepare, err := prepareRequest(ctx, headers)
		if err != nil {
			return common.NewRuntimeErr(name, "read_data", err)
		}

		e, err := openEnv(ctx)
		if err != nil {
			return common.NewRuntimeErr(name, "open_store", err)
		}
		defer e.close()

		resp, sendErr := e.session.Do(context.Background(), method, rawURL, prepare)
		if sendErr == nil {
			err = writeResponse(ctx, resp)
			resp.Body.Close()
		}
		// Cookies of the hops before a failure are kept too.
		if !ctx.Bool("no-save") {
			if serr := e.save(); serr != nil {
				return common.NewRuntimeErr(name, "save_store", serr)
			}
		}
		if sendErr != nil {
			return common.NewRuntimeErr(name, "send", sendErr)
		}
		if err != nil {
			return common.NewRuntimeErr(name, "write_output", err)
		}
		return nil
	}
}

func prepareRequest(ctx *cli.Context, headers httpclient.Headers) (session.PrepareFunc, error) {
	fns := make([]session.PrepareFunc, 0, len(headers)+1)
	for _, h := range headers {
		fns = append(fns, session.WithHeader(h.Key, h.Value))
	}
	if ctx.IsSet("data") {
		body, err := readData(ctx.String("data"))
		if err != nil {
			return nil, err
		}
		contentType := ctx.String("content-type")
		if contentType == "" {
			contentType = defaultContentType
		}
		fns = append(fns, session.WithBody(contentType, body))
	}
	return session.Chain(fns...), nil
}

// readData returns the request body given with --data. "@path" reads the
// file at path and "@-" reads stdin.
func readData(data string) ([]byte, error) {
	path, ok := strings.CutPrefix(data, "@")
	if !ok {
		return []byte(data), nil
	}
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeResponse(ctx *cli.Context, resp *http.Response) error {
	if ctx.Bool("include") {
		printHead(resp)
	}
	if resp.Request != nil && resp.Request.Method == http.MethodHead {
		return nil
	}
	out := ctx.String("output")
	if out == "" {
		_, err := io.Copy(stdout, resp.Body)
		return err
	}
	return saveBody(resp, out)
}

func printHead(resp *http.Response) {
	fmt.Fprintf(stdout, "%s %s\n", resp.Proto, resp.Status)
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			fmt.Fprintf(stdout, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintln(stdout)
}

func saveBody(resp *http.Response, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	p := mpb.New(mpb.WithOutput(stderr), mpb.WithWidth(64))
	bar := common.InitBar(p, "", resp.ContentLength)
	n, err := io.Copy(f, bar.ProxyReader(resp.Body))
	if err != nil {
		bar.Abort(false)
	} else {
		bar.SetTotal(-1, true)
	}
	p.Wait()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "saved %d bytes to %s\n", n, path)
	return nil
}

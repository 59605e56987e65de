package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/sadopc/restman/internal/core/model"
)

func newSendCmd() *cobra.Command {
	var (
		headers     []string
		queryParams []string
		body        string
		contentType string
		timeoutMS   int
		insecure    bool
		noRedirect  bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "send METHOD URL",
		Short: "Send a one-off request",
		Long: `Send an HTTP request and print the response. Variables like {{host}} are
resolved against the active environment before sending, and the call is
recorded to history.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := model.Method(strings.ToUpper(args[0]))
			req := model.NewRequest("", method, args[1])

			for _, h := range headers {
				key, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("header %q is not key:value", h)
				}
				req.Headers = append(req.Headers, model.KVPair{
					Key: strings.TrimSpace(key), Value: strings.TrimSpace(value), Enabled: true,
				})
			}
			for _, q := range queryParams {
				key, value, _ := strings.Cut(q, "=")
				req.QueryParams = append(req.QueryParams, model.KVPair{
					Key: key, Value: value, Enabled: true,
				})
			}
			if body != "" {
				ct := contentType
				if ct == "" {
					ct = "application/json"
				}
				req.Body = model.Body{
					Type: model.BodyRaw,
					Raw:  &model.RawBody{Content: body, ContentType: ct},
				}
			}
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			// Config supplies the defaults; flags override per call.
			req.TimeoutMillis = int(a.cfg.DefaultTimeout / time.Millisecond)
			if timeoutMS > 0 {
				req.TimeoutMillis = timeoutMS
			}
			req.VerifySSL = a.cfg.VerifySSL && !insecure
			req.FollowRedirects = a.cfg.FollowRedirect && !noRedirect

			resp, err := a.runner.Send(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResponse(cmd, resp, verbose)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header as key:value, repeatable")
	cmd.Flags().StringArrayVarP(&queryParams, "query", "q", nil, "query parameter as key=value, repeatable")
	cmd.Flags().StringVarP(&body, "body", "d", "", "raw request body")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type for --body (default application/json)")
	cmd.Flags().IntVar(&timeoutMS, "timeout", 0, "request timeout in milliseconds")
	cmd.Flags().BoolVarP(&insecure, "insecure", "k", false, "skip TLS certificate verification")
	cmd.Flags().BoolVar(&noRedirect, "no-redirect", false, "do not follow redirects")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print response headers and timing")
	return cmd
}

func printResponse(cmd *cobra.Command, resp *model.Response, verbose bool) {
	out := cmd.OutOrStdout()

	if resp.ErrorMessage != "" && resp.StatusCode == 0 {
		fmt.Fprintln(out, "request failed:", resp.ErrorMessage)
		return
	}

	fmt.Fprintf(out, "%s %d %s (%s, %d bytes)\n",
		resp.Proto, resp.StatusCode, resp.StatusDescription, resp.ResponseTime.Round(time.Millisecond), resp.ContentLength)

	if verbose {
		for _, h := range resp.Headers {
			fmt.Fprintf(out, "%s: %s\n", h.Key, h.Value)
		}
		if resp.Timing != nil {
			fmt.Fprintf(out, "dns %s | connect %s | tls %s | ttfb %s | transfer %s\n",
				resp.Timing.DNSLookup.Round(time.Millisecond),
				resp.Timing.TCPConnect.Round(time.Millisecond),
				resp.Timing.TLSHandshake.Round(time.Millisecond),
				resp.Timing.TTFB.Round(time.Millisecond),
				resp.Timing.Transfer.Round(time.Millisecond))
		}
		if resp.RedirectCount > 0 {
			fmt.Fprintf(out, "redirects: %d\n", resp.RedirectCount)
		}
		fmt.Fprintln(out)
	}

	if resp.Body == "" {
		return
	}
	if strings.Contains(resp.ContentType, "json") {
		out.Write(pretty.Pretty([]byte(resp.Body)))
		return
	}
	fmt.Fprintln(out, resp.Body)
}

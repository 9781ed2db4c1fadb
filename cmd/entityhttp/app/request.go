package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/entityhttp/bootstrap"
	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/httpclient"
	"github.com/kbukum/entityhttp/util"
	"github.com/kbukum/entityhttp/validation"
)

var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// RequestOptions holds flags for the request command.
type RequestOptions struct {
	*GlobalOptions

	Data    string
	Query   []string
	Include bool
	JQ      string
	Output  string
}

// NewRequestCommand sends one request through an entity's client.
func NewRequestCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &RequestOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "request ENTITY METHOD PATH",
		Short: "Send a request through an entity's client",
		Long: `Send a request through the client configured for ENTITY.

GET requests take query parameters from --query. Other methods send the
JSON document given with --data as the body. A failed request prints the
error trace together with the response status and data.`,
		Example: `  # List NG orders
  entityhttp request NG GET /orders --query status=open --query page=2

  # Create an order for KE
  entityhttp request KE POST /orders --data '{"sku":"A-1","qty":3}'

  # Print only the ids, as YAML
  entityhttp request NG GET /orders --jq '[.items[].id]' -o yaml`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, opts, args[0], strings.ToUpper(args[1]), args[2])
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "",
		"JSON request body")
	cmd.Flags().StringArrayVarP(&opts.Query, "query", "q", nil,
		"query parameter as key=value, repeatable")
	cmd.Flags().BoolVarP(&opts.Include, "include", "i", false,
		"print the response status and headers")
	cmd.Flags().StringVar(&opts.JQ, "jq", "",
		"jq expression applied to the response data")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", outputJSON,
		"output format: json or yaml")
	return cmd
}

func runRequest(cmd *cobra.Command, opts *RequestOptions, entity, method, path string) error {
	payload, err := opts.payload(method)
	if err != nil {
		return err
	}
	if appErr := validation.New().OneOf("output", opts.Output, []string{outputJSON, outputYAML}).Validate(); appErr != nil {
		return appErr
	}
	filter, err := compileJQ(opts.JQ)
	if err != nil {
		return err
	}

	app, err := opts.newApp(cmd)
	if err != nil {
		return err
	}
	return app.RunTask(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
		client, err := app.Registry.For(entity)
		if err != nil {
			return err
		}
		resp, err := client.Core().Do(ctx, method, path, payload)
		if err != nil {
			return err
		}
		data, err := runJQ(ctx, filter, resp.Data())
		if err != nil {
			return err
		}
		if opts.Include {
			printStatus(cmd.OutOrStdout(), resp)
		}
		return writeData(cmd.OutOrStdout(), data, opts.Output)
	})
}

// payload returns the query map for GET and the decoded body otherwise.
func (o *RequestOptions) payload(method string) (any, error) {
	if appErr := validation.New().OneOf("method", method, methods).Validate(); appErr != nil {
		return nil, appErr
	}
	if method == http.MethodGet {
		if o.Data != "" {
			return nil, errors.InvalidInput("data", "GET requests take --query, not --data")
		}
		return parseQuery(o.Query)
	}
	if len(o.Query) > 0 {
		return nil, errors.InvalidInput("query", "only GET requests take --query")
	}
	if o.Data == "" {
		return nil, nil
	}
	var body any
	if err := json.Unmarshal([]byte(o.Data), &body); err != nil {
		return nil, errors.InvalidInput("data", "must be a JSON document").WithCause(err)
	}
	return body, nil
}

// parseQuery turns key=value pairs into query params. Repeated keys become
// lists.
func parseQuery(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.InvalidInput("query", fmt.Sprintf("%q is not key=value", pair))
		}
		switch prev := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{prev, value}
		case []string:
			params[key] = append(prev, value)
		}
	}
	return params, nil
}

func printStatus(w io.Writer, resp *httpclient.Response) {
	_, _ = fmt.Fprintf(w, "HTTP %d %s\n", resp.Status(), resp.StatusText())
	headers := resp.Headers()
	for _, name := range util.SortedKeys(headers) {
		_, _ = fmt.Fprintf(w, "%s: %s\n", name, headers[name])
	}
	_, _ = fmt.Fprintln(w)
}

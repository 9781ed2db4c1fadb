// Package httpclient provides an entity-scoped HTTP client with pluggable
// authentication strategies and normalized response and error values.
//
// A Client is bound to one entity for its whole lifetime. Every request it
// sends carries an X-Entity header with that name, the configured base URL,
// timeout and headers, and the credentials of the selected strategy.
//
// # Basic Usage
//
//	client, err := httpclient.GetForEntity("NG")
//	if err != nil {
//	    return err
//	}
//	if err := client.SetHTTPConfig(&httpclient.Configuration{
//	    BaseURL: "https://api.example.com",
//	    APIKey:  os.Getenv("API_KEY"),
//	}); err != nil {
//	    return err
//	}
//	if err := client.SetHTTPAuthStrategy(httpclient.AuthAPIKey); err != nil {
//	    return err
//	}
//
//	resp, err := client.Post(ctx, "/orders", map[string]any{"id": 1})
//	if err != nil {
//	    httpclient.LogError(err)
//	    return err
//	}
//	fmt.Println(resp.StatusCode(), resp.Data())
//
// # Errors
//
// Configuration and argument problems are returned synchronously as
// *errors.AppError before any I/O. Transport failures and non-2xx responses
// are returned as *Error, which keeps the response (when one was received)
// and the stack trace of the original failure.
//
// # Transports
//
// HTTPTransport (net/http) is the default. The restytransport subpackage
// provides the same contract on top of go-resty.
package httpclient

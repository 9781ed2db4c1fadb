// Package bootstrap wires an entityhttp application from its configuration
// file: logging, optional OpenTelemetry tracing and metrics, and one HTTP
// client per configured entity.
//
// # Quick Start
//
//	app, err := bootstrap.New(ctx, "orders")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = app.RunTask(ctx, func(ctx context.Context, app *bootstrap.App) error {
//	    client, err := app.Registry.For("NG")
//	    if err != nil {
//	        return err
//	    }
//	    _, err = client.Post(ctx, "/orders", order)
//	    return err
//	})
//
// Telemetry providers are shut down by stop hooks when the task returns.
package bootstrap

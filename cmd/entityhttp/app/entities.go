package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/entityhttp/bootstrap"
	"github.com/kbukum/entityhttp/httpclient"
	"github.com/kbukum/entityhttp/security"
	"github.com/kbukum/entityhttp/util"
)

// NewEntitiesCommand lists the configured entities.
func NewEntitiesCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "entities",
		Aliases: []string{"ls"},
		Short:   "List configured entities",
		Example: `  entityhttp entities --config ./config.yml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(_ context.Context, app *bootstrap.App) error {
				return printEntities(cmd, app.Cfg.Clients)
			})
		},
	}
}

func printEntities(cmd *cobra.Command, clients []httpclient.EntityConfig) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENTITY\tBASE URL\tAUTH\tCREDENTIAL\tTIMEOUT")
	for _, c := range clients {
		strategy := util.Coalesce(c.AuthStrategy, httpclient.AuthNone)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Entity, c.BaseURL, strategy, credential(strategy, c.Configuration), c.EffectiveTimeout())
	}
	return w.Flush()
}

// credential shows which credential a strategy sends without revealing it.
// Secret references are shown as written.
func credential(strategy httpclient.AuthStrategy, cfg httpclient.Configuration) string {
	switch strategy {
	case httpclient.AuthBasic:
		return cfg.Username + ":" + mask(cfg.Password, 0)
	case httpclient.AuthAPIKey:
		return mask(cfg.APIKey, 3)
	default:
		return "-"
	}
}

func mask(value string, visible int) string {
	if strings.HasPrefix(value, security.PrefixKeyring) || strings.HasPrefix(value, security.PrefixEnv) {
		return value
	}
	return util.MaskSecret(value, visible)
}

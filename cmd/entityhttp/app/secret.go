package app

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/security"
)

// NewSecretCommand manages credentials in the system keyring. Configuration
// files refer to them as keyring:<key>.
func NewSecretCommand(_ *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store credentials in the system keyring",
		Long: `Store credentials in the system keyring so configuration files can
refer to them instead of holding them in plain text:

  clients:
    - entity: NG
      auth_strategy: API_KEY
      api_key: keyring:ng-api-key`,
	}
	cmd.AddCommand(newSecretSetCommand(), newSecretDeleteCommand())
	return cmd
}

func newSecretSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY",
		Short:   "Store the value read from stdin under KEY",
		Example: `  printf '%s' "$NG_API_KEY" | entityhttp secret set ng-api-key`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !stderrors.Is(err, io.EOF) {
				return errors.InvalidInput("value", "failed to read stdin").WithCause(err)
			}
			value = strings.TrimRight(value, "\r\n")
			if value == "" {
				return errors.MissingField("value")
			}
			if err := security.StoreSecret(args[0], value); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %s%s\n", security.PrefixKeyring, args[0])
			return err
		},
	}
}

func newSecretDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete KEY",
		Aliases: []string{"rm"},
		Short:   "Remove KEY from the keyring",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := security.DeleteSecret(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s%s\n", security.PrefixKeyring, args[0])
			return err
		},
	}
}

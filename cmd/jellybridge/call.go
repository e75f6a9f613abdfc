package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonwraymond/jellybridge/bridge"
	"github.com/jonwraymond/jellybridge/envelope"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errFailedCall makes the process exit non-zero after printing an err envelope.
var errFailedCall = errors.New("operation returned an err envelope")

func newCallCommand(a *app) *cobra.Command {
	var failOnErr bool

	cmd := &cobra.Command{
		Use:   "call <operation> [input...]",
		Short: "Run one operation and print its envelope",
		Long: `Run one operation with positional string inputs and print the result envelope.
An input of "-" is read from standard input.

  jellybridge call execute_code 'result = 1 + 2;' '[]'
  jellybridge call parse_func_candid 'f : () -> ()'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			inputs, err := readInputs(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			b, err := a.newBridge()
			if err != nil {
				return err
			}

			out, err := b.Call(cmd.Context(), name, inputs...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			env, err := envelope.Decode(out)
			ok := err == nil && env.IsOK()
			a.logger.Debug("call finished", zap.String("operation", name), zap.Bool("ok", ok))
			if failOnErr && !ok {
				return errFailedCall
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnErr, "fail", false, "exit non-zero when the envelope is err")
	return cmd
}

// readInputs replaces a single "-" argument with the contents of stdin.
func readInputs(stdin io.Reader, args []string) ([]string, error) {
	inputs := make([]string, len(args))
	usedStdin := false
	for i, arg := range args {
		if arg != "-" {
			inputs[i] = arg
			continue
		}
		if usedStdin {
			return nil, fmt.Errorf("only one input may be read from stdin")
		}
		usedStdin = true
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		inputs[i] = strings.TrimSuffix(string(data), "\n")
	}
	return inputs, nil
}

// operationUsage renders "name(param, ...)".
func operationUsage(op bridge.Operation) string {
	return fmt.Sprintf("%s(%s)", op.Name, strings.Join(op.Params, ", "))
}

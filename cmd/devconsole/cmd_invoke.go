package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devconsole/internal/console"
)

// errOperationNotFound is returned when no selectable operation matches the name.
var errOperationNotFound = errors.New("operation not found")

// invokeOperation drives the controller the way the form does: select, fill
// each field in order, confirm.
func invokeOperation(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := boot()
	if err != nil {
		return err
	}
	defer s.Close()

	name, values := args[0], args[1:]
	op, ok := s.console.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q (see 'devconsole list')", errOperationNotFound, name)
	}
	if len(values) > op.Arity() {
		return fmt.Errorf("%s takes %d argument(s), got %d", op.Name(), op.Arity(), len(values))
	}

	ctrl := s.console.Controller()
	if err := s.console.Select(ctx, op); err != nil {
		return err
	}

	if ctrl.State() == console.StateCollecting {
		params := op.Params()
		for i, text := range values {
			if params[i].Kind == console.KindBool {
				on, err := strconv.ParseBool(text)
				if err != nil {
					ctrl.Cancel()
					return fmt.Errorf("%s: %q is not a bool", params[i].Name, text)
				}
				if err := ctrl.SetBool(i, on); err != nil {
					return err
				}
				continue
			}
			display, err := ctrl.EditField(i, text)
			if err != nil {
				return err
			}
			if display != text {
				logger.Debug("argument coerced",
					zap.String("param", params[i].Name),
					zap.String("input", text),
					zap.String("display", display),
				)
			}
		}
		if err := ctrl.Confirm(ctx); err != nil {
			return err
		}
	}

	res := ctrl.LastResult()
	logger.Info("invoked",
		zap.String("operation", op.Name()),
		zap.String("invocation", res.ID),
		zap.Duration("duration", res.Duration),
	)

	if len(res.Outputs) == 0 {
		fmt.Printf("%s: ok\n", op.Name())
	}
	for _, out := range res.Outputs {
		fmt.Println(out)
	}
	return nil
}

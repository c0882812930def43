package main

import (
	"errors"
	"fmt"
	"os"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var extractErr *taikoerrors.ExtractError
		if errors.As(err, &extractErr) {
			fmt.Fprintln(os.Stderr, renderDiagnostic(extractErr))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

package dsl

import (
	"fmt"

	"github.com/web-algebra/webalgebra/walerr"
)

func missingArg(op, name string) error {
	return walerr.Program(op, name, fmt.Errorf("missing required argument %q", name))
}

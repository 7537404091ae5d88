// Command webalgebra is the minimal CLI front end for the evaluator
// (spec.md §6 "External interfaces"): it evaluates a JSON program tree
// read from --from-json and prints the typed result, or serves the MCP
// HTTP transport with --serve. Grounded on the teacher's own
// flag-based example command entrypoints (dsl/codegen/cmd/..., plain
// stdlib flag.String, no cobra/cli framework).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/engine"
	"github.com/web-algebra/webalgebra/log"
	"github.com/web-algebra/webalgebra/mcp"

	_ "github.com/web-algebra/webalgebra/operator/builtin"
)

func main() {
	fromJSON := flag.String("from-json", "", "path to a JSON program tree to evaluate")
	serveAddr := flag.String("serve", "", "if set, serve the MCP HTTP transport on this address instead of evaluating --from-json")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if *serveAddr != "" {
		eval := engine.New(settings)
		log.Infof("serving MCP transport on %s", *serveAddr)
		if err := mcp.ListenAndServe(*serveAddr, eval); err != nil {
			fatal(err)
		}
		return
	}

	if *fromJSON == "" {
		fatal(fmt.Errorf("one of --from-json or --serve is required"))
	}

	data, err := os.ReadFile(*fromJSON)
	if err != nil {
		fatal(fmt.Errorf("read %s: %w", *fromJSON, err))
	}

	var program any
	if err := json.Unmarshal(data, &program); err != nil {
		fatal(fmt.Errorf("parse %s: %w", *fromJSON, err))
	}

	eval := engine.New(settings)
	result, err := eval.Eval(context.Background(), program)
	if err != nil {
		fatal(err)
	}

	fmt.Println(mcp.RenderValue(result))
}

func fatal(err error) {
	log.Errorf("%v", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

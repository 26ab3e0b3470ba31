package main

import (
	"fmt"
	"math/big"

	"github.com/loda-lang/formula-analyzer/internal/eval"
	"github.com/loda-lang/formula-analyzer/internal/parser"
	"github.com/spf13/cobra"
)

const defaultEvalPoints = 10

func runEval(cmd *cobra.Command, args []string) error {
	node, err := parser.New(nil).Parse(args[0])
	if err != nil {
		return err
	}

	points := make([]*big.Int, 0, defaultEvalPoints)
	for _, s := range args[1:] {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("invalid n %q", s)
		}
		points = append(points, n)
	}
	if len(points) == 0 {
		for i := range defaultEvalPoints {
			points = append(points, big.NewInt(int64(i)))
		}
	}

	ev := eval.New(nil)
	w := cmd.OutOrStdout()
	for _, n := range points {
		v, err := ev.Evaluate(node, n)
		if err != nil {
			fmt.Fprintf(w, "a(%s) = error: %v\n", n, err)
			continue
		}
		fmt.Fprintf(w, "a(%s) = %s\n", n, v.RatString())
	}
	return nil
}

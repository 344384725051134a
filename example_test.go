package autoflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/autoflow"
	"github.com/aretw0/autoflow/pkg/adapters/dryrun"
	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/aretw0/autoflow/pkg/dsl"
)

// ExampleEngine_Run runs a loop against the dry-run executor and prints what it would have done.
func ExampleEngine_Run() {
	g, err := dsl.New().
		Add("node_1", domain.TypeLoopStart).Times(2).Go("node_2").
		Add("node_2", domain.TypeClickLeft).Image("next.png").Go("node_3").
		Add("node_3", domain.TypeLoopEnd).Go("node_4").
		Add("node_4", domain.TypeHotkey).Keys("ctrl+s").
		Builder().Build()
	if err != nil {
		log.Fatal(err)
	}

	exec := dryrun.New()
	eng := autoflow.New(autoflow.WithExecutor(exec))

	report, err := eng.Run(context.Background(), g)
	if err != nil {
		log.Fatal(err)
	}

	for _, call := range exec.Calls() {
		fmt.Println(call)
	}
	fmt.Println("failures:", len(report.Failures))

	// Output:
	// click(next.png, 1, 1, left)
	// click(next.png, 1, 1, left)
	// hotkey(ctrl+s, 1)
	// failures: 0
}

// ExampleInspect shows the loop body the engine will repeat.
func ExampleInspect() {
	g := dsl.New().
		Add("node_1", domain.TypeLoopStart).Times(4).Go("node_2", "node_3").
		Add("node_2", domain.TypeWait).Go("node_4").
		Add("node_3", domain.TypeScroll).Go("node_4").
		Add("node_4", domain.TypeLoopEnd).
		Builder().MustBuild()

	in := autoflow.Inspect(g)
	for _, loop := range in.Loops {
		fmt.Println(loop.NodeID, loop.Count, loop.Paths, loop.LoopEnds)
	}

	// Output:
	// node_1 4 [[node_2 node_4] [node_3 node_4]] [node_4]
}

/*
Package autoflow runs desktop automation workflows described as directed graphs.

A workflow is a set of typed nodes (clicks, typing, waits, scrolling, hotkeys and
loop markers) joined by "executes after" connections. The engine walks the graph
depth-first from every node without incoming connections, hands each primitive
node to an ActionExecutor and repeats the bodies of for_loop nodes.

# Concept

The graph, the engine and the executor are separate values. Editors build or load
a graph.Graph; the Engine runs it; an executor from pkg/adapters performs the
actual input (dryrun logs, process calls allow-listed commands, robot drives the
desktop through robotgo). Named workflows live in a ports.WorkflowStore.

# Failure Isolation

A node whose action fails is reported (RunReport.Failures, OnActionError hook,
log) and its successors still run. Run only returns an error when there is
nothing to run.

# Usage

	g, _ := dsl.New().
		Add("node_1", domain.TypeLoopStart).Times(3).Go("node_2").
		Add("node_2", domain.TypeClickLeft).Image("next.png").Go("node_3").
		Add("node_3", domain.TypeLoopEnd).
		Builder().Build()

	eng := autoflow.New(autoflow.WithExecutor(myExecutor))
	report, err := eng.Run(ctx, g)
*/
package autoflow

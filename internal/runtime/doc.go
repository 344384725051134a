/*
Package runtime executes workflow graphs.

A run is a single-threaded depth-first traversal from every start node. Primitive
nodes are decoded into their parameter structs and handed to a ports.ActionExecutor
through a dispatch table keyed by node type. for_loop nodes repeat the paths of
their body, then resume after the loop_end nodes they reach.

A failing node is reported (log, OnActionError hook, RunReport) and its successors
still run; nothing short of an empty graph or a graph without start nodes makes
Run return an error.
*/
package runtime

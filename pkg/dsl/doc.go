/*
Package dsl provides a fluent builder for constructing workflow graphs in Go code.

It is mostly useful for tests and examples, where writing a JSON document by hand
would hide the shape of the graph.

Example usage:

	g, err := dsl.New().
		Add("node_1", domain.TypeLoopStart).Times(3).Go("node_2").
		Add("node_2", domain.TypeClickLeft).Image("ok.png").Go("node_3").
		Add("node_3", domain.TypeLoopEnd).Go("node_4").
		Add("node_4", domain.TypeHotkey).Keys("ctrl+s").
		Builder().Build()
*/
package dsl

/*
Package workflow converts workflow graphs to and from their persisted document form.

A document has two top-level fields: "nodes", a mapping from node id to
{type, x, y, params}, and "connections", an ordered list of {from, to} pairs.
JSON, YAML and msgpack encodings are supported and all of them keep the node
order of the graph.

Loading recomputes the graph's id counter from the "node_<n>" ids; documents
with other ids are rejected with domain.ErrNonConformingID.
*/
package workflow

/*
Package graph holds the workflow Graph Model and the loop Path Finder.

The Graph keeps nodes in insertion order and connections in the order they were
added; both orders make branch enumeration deterministic. BodyPaths and LoopEnds
are read-only queries the execution engine issues at run time for every for_loop
it meets.
*/
package graph

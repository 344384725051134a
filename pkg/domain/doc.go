/*
Package domain contains the core domain models of the autoflow engine.

It defines the closed set of node types, their parameter schemas, connections,
lifecycle events and run reports. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Node: a typed step (click, input, wait, scroll, hotkey) or loop marker (for_loop, loop_end).
  - Connection: a directed "executes after" edge between two nodes.
  - LifecycleHooks: callbacks the engine emits during a run (run start/finish, dispatches, failures).
  - RunReport: what a run dispatched and which dispatches failed.
*/
package domain

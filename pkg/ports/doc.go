/*
Package ports defines the driven ports of the workflow engine.

# Key Interfaces

  - ActionExecutor: performs clicks, typing, waits, scrolling and hotkeys.
  - WorkflowStore: persists named workflow documents.
  - Locker: serializes concurrent runs of the same workflow.

RunWorkflowStoreContract verifies that a WorkflowStore adapter honours the interface.
*/
package ports

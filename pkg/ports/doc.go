/*
Package ports defines the driven ports (interfaces) of the walkthrough engine.

These interfaces decouple the sequencer from its collaborators, allowing it to
work with various storage backends, capture sources and analysis services.

# Key Interfaces

  - StepCatalog: the ordered, read-only list of installation steps.
  - Capturer / Stream: screen-capture acquisition, frame grab and release.
  - Analyzer: turns a captured frame into assistant text for a step.
  - SessionStore / ArtifactStore: persistence of sessions and captured frames.
  - DistributedLocker: cross-replica coordination of session access.
  - Guide: the driving port consumed by the HTTP, MCP and terminal adapters.
*/
package ports

/*
Package domain contains the core domain models of the walkthrough engine.

It defines the entities exchanged between the sequencer and its collaborators:
installation steps, chat messages and their action affordances, the append-only
transcript and the per-session sequencer state. The package is kept pure and free
of I/O, following the same hexagonal split as the adapters that consume it.

# Key Entities

  - InstallationStep: one instructional unit, identified by a stable id.
  - Message: an immutable chat entry, optionally carrying an Action affordance.
  - Action: a tagged variant (permission-request or step-response) whose option set
    is derived from its kind.
  - Transcript: the ordered, append-only message log.
  - Session: the persisted unit (SequencerState + Transcript).
*/
package domain

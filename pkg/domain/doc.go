/*
Package domain contains the core model of the PIN automaton.

It defines the states, symbols, tape, transition rules, events and errors shared by
the runtime, the runner and the presentation layers. The package is pure: no I/O,
no clocks, no goroutines.

# Key Entities

  - State: q0..q6, accept, reject (plus q7 and check for the deferred policy).
  - Symbol / SymbolClass: tape cells and their DIGIT, BLANK or OTHER classification.
  - Tape: the loaded input followed by one Blank.
  - Rule: a (state, class) cell of the transition table.
  - TransitionEvent: the record emitted for every applied step.
*/
package domain

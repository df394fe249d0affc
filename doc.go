/*
Package pintape is a finite-state automaton that decides whether an input is a
4-digit or 6-digit numeric PIN, built for step-by-step visualisation.

The automaton reads a tape (the input characters followed by one blank) one symbol
at a time. Every step emits a TransitionEvent; renderers subscribe to those events
instead of reaching into the machine.

# Key Features

  - Deterministic: the same input always yields the same sequence of events.
  - Atomic load: invalid input never disturbs the machine that is already loaded.
  - Manual or timed stepping, with cancellation between steps.
  - Two transition policies: "positional" (default) and "deferred".

# Usage

	m, err := pintape.New()
	if err != nil {
		log.Fatal(err)
	}

	unsubscribe := m.Subscribe(func(e domain.TransitionEvent) {
		fmt.Println(e.Message)
	})
	defer unsubscribe()

	if err := m.Load("1234"); err != nil {
		log.Fatal(err)
	}

	// Step manually...
	m.Step()

	// ...or let the machine run at a fixed interval.
	res, err := m.Run(ctx, 500*time.Millisecond)
	fmt.Println(res.Reason, m.Snapshot().Verdict)
*/
package pintape

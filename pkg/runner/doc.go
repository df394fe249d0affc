/*
Package runner drives a PIN automaton over time and renders what it does.

It provides the cancellable fixed-interval scheduler behind Machine.Run and the
console observers (plain text and NDJSON) that turn transition events into output.
Observers never mutate the automaton; they subscribe through lifecycle hooks.

# Usage

	r := runner.New(runner.WithInterval(500 * time.Millisecond))
	steps, err := r.Run(ctx, machine)
*/
package runner

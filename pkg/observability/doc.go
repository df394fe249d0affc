/*
Package observability provides tools for monitoring the PIN automaton.

It turns lifecycle hooks into Prometheus counters (loads, transitions, verdicts,
resets) and can write them in the text exposition format without an HTTP server.
*/
package observability

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/pintape/pkg/domain"
	"github.com/aretw0/pintape/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOptions isolates a command from the process environment and terminal.
func testOptions(stdin string) (Options, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return Options{
		Interval: time.Millisecond,
		NoColor:  true,
		Environ:  map[string]string{},
		Stdin:    strings.NewReader(stdin),
		Stdout:   stdout,
		Stderr:   stderr,
	}, stdout, stderr
}

func TestResolveConfig_FlagsWin(t *testing.T) {
	opts, _, _ := testOptions("")
	opts.Environ = map[string]string{"PINTAPE_POLICY": "deferred", "PINTAPE_INTERVAL": "5s"}

	cfg, err := ResolveConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "deferred", cfg.Policy)
	assert.Equal(t, time.Millisecond, cfg.Interval)
	assert.False(t, cfg.Color)

	opts.Policy = "positional"
	cfg, err = ResolveConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "positional", cfg.Policy)
}

func TestResolveConfig_FlagOverridesInvalidEnv(t *testing.T) {
	opts, _, _ := testOptions("")
	opts.Environ = map[string]string{"PINTAPE_POLICY": "bogus"}
	opts.Policy = "positional"

	cfg, err := ResolveConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "positional", cfg.Policy)

	opts.Policy = ""
	_, err = ResolveConfig(opts)
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)
}

func TestResolveConfig_UnknownPolicy(t *testing.T) {
	opts, _, _ := testOptions("")
	opts.Policy = "lenient"

	_, err := ResolveConfig(opts)
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)
}

func TestRunSession(t *testing.T) {
	t.Run("Valid PIN", func(t *testing.T) {
		opts, stdout, _ := testOptions("")
		err := RunSession(context.Background(), RunOptions{Options: opts}, "1234")
		require.NoError(t, err)

		out := stdout.String()
		assert.Contains(t, out, `> ✓ tape loaded: "1234"`)
		assert.Contains(t, out, `> → digit "4" read | q3 → q4 | digits: 4`)
		assert.Contains(t, out, "> ✓ 4-digit PIN → accept")
		assert.Contains(t, out, "> ✓ valid PIN")
		assert.Contains(t, out, "> ℹ run complete | steps: 5 | written: 4")
	})

	t.Run("Invalid Input", func(t *testing.T) {
		opts, stdout, _ := testOptions("")
		err := RunSession(context.Background(), RunOptions{Options: opts}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, stdout.String(), "> ✗ error: invalid input")
	})

	t.Run("JSON", func(t *testing.T) {
		opts, stdout, _ := testOptions("")
		err := RunSession(context.Background(), RunOptions{Options: opts, JSON: true}, "12a4")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 6) // load, 3 transitions, verdict, summary
		var verdict, summary map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[4]), &verdict))
		assert.Equal(t, "verdict", verdict["type"])
		assert.Equal(t, "rejected", verdict["verdict"])
		require.NoError(t, json.Unmarshal([]byte(lines[5]), &summary))
		assert.Equal(t, "system", summary["type"])
		assert.Equal(t, "ℹ run complete | steps: 3 | written: 3", summary["message"])
	})

	t.Run("Cancelled", func(t *testing.T) {
		opts, stdout, _ := testOptions("")
		opts.Interval = time.Hour
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		time.AfterFunc(20*time.Millisecond, cancel)

		err := RunSession(ctx, RunOptions{Options: opts}, "1234")
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), ">>> Run cancelled at 'q1'.")
	})
}

func TestRunStepper(t *testing.T) {
	t.Run("Steps To Verdict", func(t *testing.T) {
		opts, stdout, _ := testOptions("\n\n\n\nq\n")
		require.NoError(t, RunStepper(context.Background(), StepOptions{Options: opts}, "12"))

		out := stdout.String()
		assert.Contains(t, out, `> → digit "2" read | q1 → q2 | digits: 2`)
		assert.Contains(t, out, "> ✗ only 2 digits → reject")
		assert.Contains(t, out, "> ✗ invalid PIN")
		assert.Contains(t, out, "> ℹ the machine has already finished")
		assert.NotContains(t, out, "run complete")
		assert.NotContains(t, out, stepHelp+" >")
	})

	t.Run("Run Rest", func(t *testing.T) {
		opts, stdout, _ := testOptions("\nr\n")
		require.NoError(t, RunStepper(context.Background(), StepOptions{Options: opts}, "123456"))
		assert.Contains(t, stdout.String(), "> ✓ 6-digit PIN → accept")
	})

	t.Run("Reset And Reload", func(t *testing.T) {
		opts, stdout, _ := testOptions("x\n\nl 1234\nr\nwhat\n")
		require.NoError(t, RunStepper(context.Background(), StepOptions{Options: opts}, "99"))

		out := stdout.String()
		assert.Contains(t, out, "> machine reset | state: q0")
		assert.Contains(t, out, "> ✗ load an input first")
		assert.Contains(t, out, `> ✓ tape loaded: "1234"`)
		assert.Contains(t, out, "> ✓ valid PIN")
		assert.Contains(t, out, "> ℹ run complete | steps: 5 | written: 4")
		assert.Contains(t, out, `>>> unknown command "what"`)
	})

	t.Run("Rejected Initial Input", func(t *testing.T) {
		opts, stdout, _ := testOptions("\n")
		require.NoError(t, RunStepper(context.Background(), StepOptions{Options: opts}, "12345678901"))

		out := stdout.String()
		assert.Contains(t, out, "> ✗ error: input too long: 11 characters (max 10)")
		assert.Contains(t, out, "> ✗ load an input first")
	})
}

func TestRunCheck(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		opts, stdout, _ := testOptions("")
		err := RunCheck(context.Background(), CheckOptions{Options: opts}, []string{"1234", "12a4", ""})
		require.NoError(t, err)

		out := stdout.String()
		assert.Contains(t, out, `✓ "1234": valid PIN`)
		assert.Contains(t, out, `✗ "12a4": invalid PIN`)
		assert.Contains(t, out, `✗ "": invalid input: empty input`)
	})

	t.Run("Strict", func(t *testing.T) {
		opts, _, _ := testOptions("")
		err := RunCheck(context.Background(), CheckOptions{Options: opts, Strict: true}, []string{"1234", "12345"})
		assert.ErrorIs(t, err, ErrRejected)

		err = RunCheck(context.Background(), CheckOptions{Options: opts, Strict: true}, []string{"1234", "654321"})
		assert.NoError(t, err)
	})

	t.Run("JSON From Stdin", func(t *testing.T) {
		opts, stdout, _ := testOptions("1234\n  123456  \n\n1\n")
		require.NoError(t, RunCheck(context.Background(), CheckOptions{Options: opts, JSON: true}, nil))

		var results []CheckResult
		dec := json.NewDecoder(stdout)
		for dec.More() {
			var r CheckResult
			require.NoError(t, dec.Decode(&r))
			results = append(results, r)
		}
		require.Len(t, results, 3)
		assert.Equal(t, CheckResult{Input: "1234", Verdict: domain.VerdictAccepted, Digits: 4, Steps: 5}, results[0])
		assert.Equal(t, "123456", results[1].Input)
		assert.Equal(t, domain.VerdictAccepted, results[1].Verdict)
		assert.Equal(t, domain.VerdictRejected, results[2].Verdict)
	})

	t.Run("Bad Line Number Counts Blank Lines", func(t *testing.T) {
		opts, _, _ := testOptions("1234\n\n\xff\n")
		err := RunCheck(context.Background(), CheckOptions{Options: opts}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, runner.ErrInvalidUTF8)
		assert.Contains(t, err.Error(), "line 3")
	})

	t.Run("Deferred Policy From Env", func(t *testing.T) {
		opts, stdout, _ := testOptions("")
		opts.Environ = map[string]string{"PINTAPE_POLICY": "deferred"}
		require.NoError(t, RunCheck(context.Background(), CheckOptions{Options: opts, JSON: true}, []string{"1a34"}))

		var r CheckResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &r))
		assert.Equal(t, domain.VerdictRejected, r.Verdict)
		assert.Equal(t, 5, r.Steps) // reads to the end of the tape before rejecting
	})

	t.Run("Metrics And JSON Log", func(t *testing.T) {
		opts, _, stderr := testOptions("")
		opts.Metrics = true
		opts.LogJSON = filepath.Join(t.TempDir(), "pintape.log")

		require.NoError(t, RunCheck(context.Background(), CheckOptions{Options: opts}, []string{"1234", "12"}))

		assert.Contains(t, stderr.String(), `pintape_loads_total{result="ok"} 2`)
		assert.Contains(t, stderr.String(), `pintape_verdicts_total{verdict="accepted"} 1`)

		data, err := os.ReadFile(opts.LogJSON)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"check finished"`)
	})
}

func TestRenderGraph(t *testing.T) {
	opts, stdout, _ := testOptions("")
	require.NoError(t, RenderGraph(opts, "1234"))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, "class q4 visited;")
	assert.Contains(t, out, "class accept current;")

	opts, _, _ = testOptions("")
	assert.ErrorIs(t, RenderGraph(opts, "12345678901"), domain.ErrInputTooLong)
}

func TestExplain(t *testing.T) {
	opts, stdout, _ := testOptions("")
	require.NoError(t, Explain(opts, "12a4"))

	out := stdout.String()
	assert.Contains(t, out, "12a4")
	assert.Contains(t, out, "invalid PIN")
	assert.Contains(t, out, "reject")
}

func TestTable(t *testing.T) {
	opts, stdout, _ := testOptions("")
	opts.Policy = "deferred"
	require.NoError(t, Table(opts))

	out := stdout.String()
	assert.Contains(t, out, "deferred")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "q7")
}

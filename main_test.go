package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSolve(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"solve"}, args...))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	t.Run("Finds the winning cell", func(t *testing.T) {
		// Given: X to move with two in the top row
		out, err := runSolve(t, "--board", "XX./OO./...")

		// Then: cell 2 is the only best cell
		require.NoError(t, err)
		assert.Contains(t, out, "turn X")
		assert.Contains(t, out, "best cells [2]")
	})

	t.Run("Reports a finished game", func(t *testing.T) {
		out, err := runSolve(t, "--board", "XXXOO....")

		require.NoError(t, err)
		assert.Contains(t, out, "game over, value 1")
	})

	t.Run("Rejects a malformed board", func(t *testing.T) {
		_, err := runSolve(t, "--board", "XO")

		require.Error(t, err)
	})
}

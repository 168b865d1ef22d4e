package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
)

func TestValidate_ValidDAG(t *testing.T) {
	g := buildClean(t,
		act(1, "A", "", "B,C"),
		act(2, "B", "A", "D"),
		act(3, "C", "A", "D"),
		act(4, "D", "B,C", ""),
	)
	v := Validate(g)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.Warnings)
	assert.Equal(t, []string{"A"}, v.Starts)
	assert.Equal(t, []string{"D"}, v.Ends)
}

func TestValidate_MutualCycle(t *testing.T) {
	// P -> Q -> P declared from both sides.
	g := buildClean(t,
		act(1, "P", "Q", "Q"),
		act(2, "Q", "P", "P"),
	)
	v := Validate(g)
	assert.False(t, v.Valid)

	cycles := v.Errors.OfKind(diag.KindCycle)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"P", "Q"}, cycles[0].IDs)
	assert.Contains(t, cycles[0].Message, "P->Q (line 1)")
	assert.Contains(t, cycles[0].Message, "Q->P (line 1)")
	assert.Equal(t, [][]string{{"P", "Q"}}, v.Cycles)

	// No activity is free of predecessors or successors either.
	assert.Len(t, v.Errors.OfKind(diag.KindMissingBoundary), 2)
}

func TestValidate_CountsEveryIndependentCycle(t *testing.T) {
	// Three disjoint cycles plus a clean chain feeding one of them.
	g := buildClean(t,
		act(1, "A", "", "B"),
		act(2, "B", "", "A"),
		act(3, "C", "", "D"),
		act(4, "D", "", "E"),
		act(5, "E", "", "C"),
		act(6, "F", "", "G"),
		act(7, "G", "", "F"),
		act(8, "S", "", "C"),
	)
	v := Validate(g)
	assert.Len(t, v.Errors.OfKind(diag.KindCycle), 3)
}

func TestValidate_OverlappingCycles(t *testing.T) {
	// A -> B -> A and A -> C -> B -> A share nodes; both are simple cycles.
	g := buildClean(t,
		act(1, "A", "", "B,C"),
		act(2, "B", "", "A"),
		act(3, "C", "", "B"),
	)
	v := Validate(g)
	require.Len(t, v.Cycles, 2)
	assert.ElementsMatch(t, [][]string{{"A", "B"}, {"A", "C", "B"}}, v.Cycles)
}

func TestValidate_CompleteGraphCycles(t *testing.T) {
	// The complete digraph on three nodes has 3 two-cycles and 2 three-cycles.
	g := buildClean(t,
		act(1, "A", "", "B,C"),
		act(2, "B", "", "A,C"),
		act(3, "C", "", "A,B"),
	)
	v := Validate(g)
	assert.Len(t, v.Cycles, 5)
}

func TestValidate_SelfLoop(t *testing.T) {
	g := buildClean(t,
		act(1, "A", "", "B"),
		act(2, "B", "B", ""),
	)
	v := Validate(g)
	assert.False(t, v.Valid)

	loops := v.Errors.OfKind(diag.KindSelfLoop)
	require.Len(t, loops, 1)
	assert.Equal(t, []string{"B"}, loops[0].IDs)
	assert.Equal(t, []int{2}, loops[0].Lines)
	assert.Empty(t, v.Errors.OfKind(diag.KindCycle), "self-loops are not double counted as cycles")
}

func TestValidate_Disconnected(t *testing.T) {
	g := buildClean(t,
		act(1, "A", "", ""),
		act(2, "B", "", ""),
	)
	v := Validate(g)
	assert.True(t, v.Valid, "connectivity is a warning only")

	warns := v.Warnings.OfKind(diag.KindConnectivity)
	require.Len(t, warns, 1)
	assert.Equal(t, diag.SeverityWarning, warns[0].Severity)
	assert.Contains(t, warns[0].Message, "2 components")
	assert.Equal(t, [][]string{{"A"}, {"B"}}, v.Components)
}

func TestValidate_AccumulatesAllFindings(t *testing.T) {
	g, _ := Build([]activity.Activity{
		act(1, "A", "", "B"),
		act(2, "B", "", "A"),
		act(3, "C", "C", ""),
		act(4, "D", "", ""),
	}, Options{})
	v := Validate(g)

	assert.Len(t, v.Errors.OfKind(diag.KindCycle), 1)
	assert.Len(t, v.Errors.OfKind(diag.KindSelfLoop), 1)
	assert.Len(t, v.Warnings.OfKind(diag.KindConnectivity), 1)
	assert.Equal(t, []string{"D"}, v.Starts)
	assert.Len(t, v.Diagnostics(), len(v.Errors)+len(v.Warnings))
}

func TestValidate_Empty(t *testing.T) {
	g, _ := Build(nil, Options{})
	v := Validate(g)
	assert.False(t, v.Valid)
	assert.Len(t, v.Errors.OfKind(diag.KindMissingBoundary), 2)
}

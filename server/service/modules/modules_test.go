package modules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop/server/mutation"
)

// Every write operation the module services perform must carry an explicit
// entry in the mutation effect table. An undeclared name silently resolves to
// an empty effect, which is exactly the stale-view bug the table exists to
// prevent.
func TestEveryMutationIsDeclared(t *testing.T) {
	for _, name := range MutationNames() {
		require.True(t, mutation.Declared(name), "mutation %q performed by a module service has no effect table entry", name)
	}
}

// The reverse direction: a table entry no service performs is dead weight,
// usually left behind by a renamed write.
func TestEveryDeclaredMutationIsPerformed(t *testing.T) {
	performed := make(map[string]bool)
	for _, name := range MutationNames() {
		performed[name] = true
	}
	for _, name := range mutation.Names() {
		require.True(t, performed[name], "effect table declares %q but no module service performs it", name)
	}
}

package mutation

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop/server/cachekey"
)

func TestEffectsOfUnknownMutation(t *testing.T) {
	effect := EffectsOf("definitelyNotAMutation")
	require.True(t, effect.Empty())
	require.Empty(t, effect.LocalKeys)
	require.Empty(t, effect.SharedPatterns)
}

func TestEffectsOfDeclaredMutations(t *testing.T) {
	// Spot-check a few entries for the invariant that matters: every view
	// that can render the mutated entity is listed.
	deleteCourse := EffectsOf(DeleteCourse)
	require.Contains(t, deleteCourse.SharedPatterns, "instructor_dashboard_*")
	require.Contains(t, deleteCourse.SharedPatterns, "student_dashboard_*")
	require.Contains(t, deleteCourse.SharedPatterns, "admin_dashboard_*")
	require.Contains(t, deleteCourse.LocalKeys, cachekey.Structured("course", "record"))

	completeItem := EffectsOf(CompleteItem)
	require.Contains(t, completeItem.SharedPatterns, "student_dashboard_*")
	require.Contains(t, completeItem.SharedPatterns, "instructor_dashboard_*")
}

type recordingLocal struct {
	keys []cachekey.Key
}

func (r *recordingLocal) InvalidateLocal(key cachekey.Key) {
	r.keys = append(r.keys, key)
}

type recordingShared struct {
	patterns []string
	failOn   string
}

func (r *recordingShared) Invalidate(_ context.Context, pattern string) error {
	if pattern == r.failOn {
		return errors.New("shared cache unreachable")
	}
	r.patterns = append(r.patterns, pattern)
	return nil
}

func TestApplyEffects(t *testing.T) {
	local := &recordingLocal{}
	shared := &recordingShared{}

	err := ApplyEffects(context.Background(), UpdateCourse, local, shared)
	require.NoError(t, err)

	require.Equal(t, []cachekey.Key{cachekey.Structured("course", "record")}, local.keys)
	require.ElementsMatch(t, []string{
		"student_dashboard_*",
		"instructor_dashboard_*",
		"admin_dashboard_*",
	}, shared.patterns)
}

func TestApplyEffectsUnknownMutationIsNoop(t *testing.T) {
	local := &recordingLocal{}
	shared := &recordingShared{}

	err := ApplyEffects(context.Background(), "renameWidget", local, shared)
	require.NoError(t, err)
	require.Empty(t, local.keys)
	require.Empty(t, shared.patterns)
}

func TestApplyEffectsPropagatesSharedFailure(t *testing.T) {
	local := &recordingLocal{}
	shared := &recordingShared{failOn: "student_dashboard_*"}

	err := ApplyEffects(context.Background(), Enroll, local, shared)
	require.Error(t, err)
}

func TestApplyEffectsNilInvalidators(t *testing.T) {
	require.NoError(t, ApplyEffects(context.Background(), DeleteCourse, nil, nil))
}

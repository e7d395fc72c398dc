package body

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := NewComet(1, "login crashes", 4)
		require.NoError(t, err)

		assert.Equal(t, ID(1), b.ID)
		assert.Equal(t, KindComet, b.Kind)
		assert.Equal(t, StatusOpen, b.Status)
		assert.Equal(t, 4, b.Severity)
		assert.False(t, b.ReportedAt.IsZero())
		assert.False(t, b.IsContainer())
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := NewComet(1, "   ", 3)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("severity out of range", func(t *testing.T) {
		_, err := NewComet(1, "bug", 0)
		assert.ErrorIs(t, err, ErrInvalidSeverity)

		_, err = NewComet(1, "bug", 6)
		assert.ErrorIs(t, err, ErrInvalidSeverity)
	})

	t.Run("title is trimmed", func(t *testing.T) {
		b, err := NewComet(1, "  bug  ", 3)
		require.NoError(t, err)
		assert.Equal(t, "bug", b.Title)
	})
}

func TestNewPlanet(t *testing.T) {
	t.Run("valid with due date", func(t *testing.T) {
		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		b, err := NewPlanet(2, "write docs", PriorityHigh, &due)
		require.NoError(t, err)

		assert.Equal(t, KindPlanet, b.Kind)
		assert.Equal(t, PriorityHigh, b.Priority)
		require.NotNil(t, b.DueAt)
		assert.Equal(t, due, *b.DueAt)
	})

	t.Run("valid without due date", func(t *testing.T) {
		b, err := NewPlanet(2, "write docs", PriorityLow, nil)
		require.NoError(t, err)
		assert.Nil(t, b.DueAt)
	})

	t.Run("unknown priority", func(t *testing.T) {
		_, err := NewPlanet(2, "write docs", Priority("urgent"), nil)
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})
}

func TestNewStar(t *testing.T) {
	b, err := NewStar(3, "Mission")
	require.NoError(t, err)

	assert.Equal(t, KindStar, b.Kind)
	assert.True(t, b.IsContainer())
	assert.Empty(t, b.Children)
}

func TestBodyRef(t *testing.T) {
	star, err := NewStar(7, "Mission")
	require.NoError(t, err)
	assert.Equal(t, "S7", star.Ref())

	comet, err := NewComet(12, "bug", 1)
	require.NoError(t, err)
	assert.Equal(t, "C12", comet.Ref())

	planet, err := NewPlanet(3, "task", PriorityMedium, nil)
	require.NoError(t, err)
	assert.Equal(t, "P3", planet.Ref())
}

func TestMutatorsStampUpdatedAt(t *testing.T) {
	b, err := NewStar(1, "Mission")
	require.NoError(t, err)

	// Force a visible gap between CreatedAt and the mutation.
	b.UpdatedAt = b.UpdatedAt.Add(-time.Minute)
	before := b.UpdatedAt

	require.NoError(t, b.SetTitle("Mission II"))
	assert.Equal(t, "Mission II", b.Title)
	assert.True(t, b.UpdatedAt.After(before))

	before = b.UpdatedAt.Add(-time.Minute)
	b.UpdatedAt = before
	b.SetDescription("the second mission")
	assert.True(t, b.UpdatedAt.After(before))
}

func TestSetTitleRejectsEmpty(t *testing.T) {
	b, err := NewStar(1, "Mission")
	require.NoError(t, err)

	err = b.SetTitle("")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, "Mission", b.Title)
}

func TestSetStatus(t *testing.T) {
	t.Run("records history", func(t *testing.T) {
		b, err := NewPlanet(1, "task", PriorityMedium, nil)
		require.NoError(t, err)

		require.NoError(t, b.SetStatus(StatusInProgress, "started"))
		require.NoError(t, b.SetStatus(StatusDone, ""))

		assert.Equal(t, StatusDone, b.Status)
		require.Len(t, b.History, 2)
		assert.Equal(t, StatusOpen, b.History[0].Old)
		assert.Equal(t, StatusInProgress, b.History[0].New)
		assert.Equal(t, "started", b.History[0].Comment)
		assert.Equal(t, StatusInProgress, b.History[1].Old)
		assert.Equal(t, StatusDone, b.History[1].New)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		b, err := NewPlanet(1, "task", PriorityMedium, nil)
		require.NoError(t, err)

		err = b.SetStatus(Status("paused"), "")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Empty(t, b.History)
	})
}

func TestSetDueAtOnlyAppliesToPlanets(t *testing.T) {
	due := time.Now()

	star, err := NewStar(1, "Mission")
	require.NoError(t, err)
	star.SetDueAt(&due)
	assert.Nil(t, star.DueAt)

	planet, err := NewPlanet(2, "task", PriorityLow, nil)
	require.NoError(t, err)
	planet.SetDueAt(&due)
	require.NotNil(t, planet.DueAt)
}

func TestValidate(t *testing.T) {
	t.Run("leaf with children is invalid", func(t *testing.T) {
		b, err := NewPlanet(1, "task", PriorityLow, nil)
		require.NoError(t, err)
		b.Children = []ID{2}

		assert.Error(t, b.Validate())
	})

	t.Run("unknown kind", func(t *testing.T) {
		b, err := NewStar(1, "Mission")
		require.NoError(t, err)
		b.Kind = Kind("asteroid")

		assert.ErrorIs(t, b.Validate(), ErrInvalidKind)
	})
}

func TestStatusOrdering(t *testing.T) {
	assert.Less(t, StatusOpen.Order(), StatusInProgress.Order())
	assert.Less(t, StatusInProgress.Order(), StatusBlocked.Order())
	assert.Less(t, StatusBlocked.Order(), StatusDone.Order())
}

func TestParseEnums(t *testing.T) {
	kind, err := ParseKind("star")
	require.NoError(t, err)
	assert.Equal(t, KindStar, kind)

	_, err = ParseKind("moon")
	assert.ErrorIs(t, err, ErrInvalidKind)

	status, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseStatus("waiting")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	priority, err := ParsePriority("critical")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, priority)

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

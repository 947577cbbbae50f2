package entity

import (
	"errors"
	"testing"
	"time"

	"counseling-userservice-be/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatNextStart(t *testing.T) {
	weekly := ChatIntervalWeekly

	t.Run("one-off chat has no next start", func(t *testing.T) {
		chat := &Chat{Repetitive: false}

		next, err := chat.NextStart()

		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("weekly chat starts again seven days later", func(t *testing.T) {
		chat := &Chat{
			Repetitive:   true,
			ChatInterval: &weekly,
			StartDate:    time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		}

		next, err := chat.NextStart()

		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, time.Date(2024, 1, 8, 17, 0, 0, 0, time.UTC), *next)
	})

	t.Run("repetitive chat without interval is invalid", func(t *testing.T) {
		chat := &Chat{Id: 7, Repetitive: true}

		next, err := chat.NextStart()

		assert.Nil(t, next)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	})
}

func TestChatIsOwnedBy(t *testing.T) {
	chat := &Chat{OwnerId: "consultant-1"}

	assert.True(t, chat.IsOwnedBy("consultant-1"))
	assert.False(t, chat.IsOwnedBy("consultant-2"))
	assert.False(t, (&Chat{}).IsOwnedBy(""))
}

package announcement

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	a, err := New("id-1", "mchen", "  Tryouts  ", "  Friday 3pm  ", nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "Tryouts", a.Title)
	assert.Equal(t, "Friday 3pm", a.Body)
	assert.True(t, a.Active)
	assert.Equal(t, now, a.CreatedAt)
	assert.Equal(t, now, a.UpdatedAt)
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "mchen", "Tryouts", "Friday 3pm", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("id-1", "", "Tryouts", "Friday 3pm", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidAuthor)

	_, err = New("id-1", "mchen", "T", "Friday 3pm", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = New("id-1", "mchen", strings.Repeat("t", 81), "Friday 3pm", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = New("id-1", "mchen", "Tryouts", "F", nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidBody)

	_, err = New("id-1", "mchen", "Tryouts", strings.Repeat("b", 301), nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidBody)

	start := now
	end := now.Add(-time.Hour)
	_, err = New("id-1", "mchen", "Tryouts", "Friday 3pm", &start, &end, now)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestIsVisible(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		active  bool
		start   *time.Time
		end     *time.Time
		visible bool
	}{
		{"active no window", true, nil, nil, true},
		{"inactive no window", false, nil, nil, false},
		{"window open", true, &past, &future, true},
		{"window not started", true, &future, nil, false},
		{"window ended", true, nil, &past, false},
		{"inactive open window", false, &past, &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Announcement{
				ID:      "id-1",
				Author:  "mchen",
				Title:   "Tryouts",
				Body:    "Friday 3pm",
				Active:  tt.active,
				StartAt: tt.start,
				EndAt:   tt.end,
			}
			assert.Equal(t, tt.visible, a.IsVisible(now))
		})
	}
}

func TestApply(t *testing.T) {
	a, err := New("id-1", "mchen", "Tryouts", "Friday 3pm", nil, nil, now)
	require.NoError(t, err)

	later := now.Add(time.Minute)
	title := "Tryouts moved"
	inactive := false
	require.NoError(t, a.Apply(Update{Title: &title, Active: &inactive}, later))

	assert.Equal(t, "Tryouts moved", a.Title)
	assert.Equal(t, "Friday 3pm", a.Body) // untouched field stays
	assert.False(t, a.Active)
	assert.Equal(t, later, a.UpdatedAt)
	assert.Equal(t, now, a.CreatedAt)
}

func TestApplyRejectsInvalid(t *testing.T) {
	a, err := New("id-1", "mchen", "Tryouts", "Friday 3pm", nil, nil, now)
	require.NoError(t, err)

	bad := "x"
	err = a.Apply(Update{Title: &bad}, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTitle)

	// A rejected update leaves the announcement untouched.
	assert.Equal(t, "Tryouts", a.Title)
	assert.Equal(t, now, a.UpdatedAt)
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndOfMinute(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid minute rounds up",
			in:   time.Date(2025, 6, 1, 10, 30, 42, 500, time.UTC),
			want: time.Date(2025, 6, 1, 10, 31, 0, 0, time.UTC),
		},
		{
			name: "exact minute still advances",
			in:   time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
			want: time.Date(2025, 6, 1, 10, 31, 0, 0, time.UTC),
		},
		{
			name: "hour boundary",
			in:   time.Date(2025, 6, 1, 10, 59, 59, 0, time.UTC),
			want: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EndOfMinute(tc.in))
		})
	}
}

func TestIsPublic(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	horizon := EndOfMinute(now)
	past := now.Add(-time.Hour)
	withinMinute := now.Add(30 * time.Second)
	future := now.Add(2 * time.Hour)

	cases := []struct {
		name   string
		status PostStatus
		at     *time.Time
		want   bool
	}{
		{"published in the past", StatusPublished, &past, true},
		{"published within the current minute", StatusPublished, &withinMinute, true},
		{"published in the future", StatusPublished, &future, false},
		{"draft with a stamp", StatusDraft, &past, false},
		{"archived", StatusArchived, &past, false},
		{"published without a stamp", StatusPublished, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Post{Status: tc.status, PublishedAt: tc.at}
			assert.Equal(t, tc.want, p.IsPublic(horizon))
		})
	}
}

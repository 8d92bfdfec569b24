package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/lingosync/internal/lesson"
)

func TestLegacyKeys(t *testing.T) {
	tests := []struct {
		name string
		ref  lesson.Ref
		want []string
	}{
		{
			name: "chapter lesson never uses the bare number",
			ref:  lesson.Ref{ChapterNo: 1, LessonNo: 3},
			want: []string{"101003", "1_3", "Ch1_L3"},
		},
		{
			name: "lesson without chapter",
			ref:  lesson.Ref{LessonNo: 3},
			want: []string{lesson.Ref{LessonNo: 3}.ID().String(), "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyKeys(tt.ref))
		})
	}
}

func TestDownloadedKeys(t *testing.T) {
	assert.Equal(t,
		[]string{"101003", "1_3", "Ch1_L3", "3"},
		DownloadedKeys(lesson.Ref{ChapterNo: 1, LessonNo: 3}))
	assert.Equal(t,
		[]string{lesson.Ref{LessonNo: 3}.ID().String(), "3"},
		DownloadedKeys(lesson.Ref{LessonNo: 3}))
}

func TestLookup(t *testing.T) {
	ref := lesson.Ref{ChapterNo: 2, LessonNo: 5}

	tests := []struct {
		name   string
		m      map[string]bool
		want   bool
		wantOK bool
	}{
		{name: "canonical", m: map[string]bool{"102005": true}, want: true, wantOK: true},
		{name: "pair key", m: map[string]bool{"2_5": true}, want: true, wantOK: true},
		{name: "composite key", m: map[string]bool{"Ch2_L5": true}, want: true, wantOK: true},
		{name: "bare lesson number belongs to no chapter", m: map[string]bool{"5": true}, wantOK: false},
		{name: "canonical wins", m: map[string]bool{"102005": false, "2_5": true}, want: false, wantOK: true},
		{name: "absent", m: map[string]bool{"2_6": true}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.m, ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize(map[string]bool{
		"1_3":    false,
		"Ch1_L3": true,
		"7":      true,
	}, func(a, b bool) bool { return a || b })

	assert.Equal(t, map[string]bool{"101003": true, "7": true}, got)
}

func TestLookupDownloaded_BareLessonNumber(t *testing.T) {
	m := map[string]bool{"5": true}

	got, ok := LookupDownloaded(m, lesson.Ref{ChapterNo: 2, LessonNo: 5})
	assert.True(t, ok)
	assert.True(t, got)

	_, ok = Lookup(m, lesson.Ref{ChapterNo: 2, LessonNo: 5})
	assert.False(t, ok)

	got, ok = Lookup(m, lesson.Ref{LessonNo: 5})
	assert.True(t, ok)
	assert.True(t, got)
}

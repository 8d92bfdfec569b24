package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	tests := []struct {
		name      string
		chapterNo int
		lessonNo  int
		want      ID
	}{
		{name: "chapter 1 lesson 3", chapterNo: 1, lessonNo: 3, want: 101003},
		{name: "chapter 12 lesson 7", chapterNo: 12, lessonNo: 7, want: 112007},
		{name: "largest narrow id", chapterNo: 99, lessonNo: 999, want: 199999},
		{name: "lesson beyond three digits", chapterNo: 11, lessonNo: 1001, want: 20_001_101_001},
		{name: "chapter beyond two digits", chapterNo: 111, lessonNo: 1, want: 20_011_100_001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pack(tt.chapterNo, tt.lessonNo)
			assert.Equal(t, tt.want, got)

			ref, err := Unpack(got)
			require.NoError(t, err)
			assert.Equal(t, Ref{ChapterNo: tt.chapterNo, LessonNo: tt.lessonNo}, ref)
		})
	}
}

func TestPack_NoCollisions(t *testing.T) {
	seen := make(map[ID]Ref)
	for c := 1; c <= 120; c++ {
		for l := 1; l <= 120; l++ {
			ref := Ref{ChapterNo: c, LessonNo: l}
			id := ref.ID()
			prev, dup := seen[id]
			require.False(t, dup, "%v and %v share id %d", prev, ref, id)
			seen[id] = ref
		}
	}
	assert.NotEqual(t, Pack(11, 1001), Pack(111, 1))
}

func TestUnpack_Invalid(t *testing.T) {
	for _, id := range []ID{0, 7, 99_999, 200_000, 30_000_000_000} {
		_, err := Unpack(id)
		assert.ErrorIs(t, err, ErrUnknownKey, "id %d", id)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    Ref
		wantErr bool
	}{
		{name: "packed id", key: "101003", want: Ref{ChapterNo: 1, LessonNo: 3}},
		{name: "underscore pair", key: "2_4", want: Ref{ChapterNo: 2, LessonNo: 4}},
		{name: "dash pair", key: "2-4", want: Ref{ChapterNo: 2, LessonNo: 4}},
		{name: "composite key", key: "Ch3_L5", want: Ref{ChapterNo: 3, LessonNo: 5}},
		{name: "composite key lower case", key: "ch3_l5", want: Ref{ChapterNo: 3, LessonNo: 5}},
		{name: "bare lesson number", key: "6", want: Ref{LessonNo: 6}},
		{name: "surrounding spaces", key: " 1_2 ", want: Ref{ChapterNo: 1, LessonNo: 2}},
		{name: "empty", key: "", wantErr: true},
		{name: "garbage", key: "lesson", wantErr: true},
		{name: "negative", key: "-3", wantErr: true},
		{name: "large number that is not an id", key: "5000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	id, err := Resolve("Ch1_L3")
	require.NoError(t, err)
	assert.Equal(t, ID(101003), id)
	assert.Equal(t, "101003", id.String())
	assert.Equal(t, Ref{ChapterNo: 1, LessonNo: 3}, id.Ref())

	_, err = Resolve("3")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestRef_Keys(t *testing.T) {
	ref := Ref{ChapterNo: 4, LessonNo: 2}
	assert.Equal(t, "4_2", ref.Key())
	assert.Equal(t, "Ch4_L2", ref.CompositeKey())
	assert.Equal(t, "4_2", ref.String())
	assert.Equal(t, "2", Ref{LessonNo: 2}.String())
}

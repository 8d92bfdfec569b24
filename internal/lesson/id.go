// Package lesson defines the canonical lesson identity, the lesson catalog model and its repository.
package lesson

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned when a key cannot be resolved to a lesson.
var ErrUnknownKey = errors.New("unknown lesson key")

const (
	// narrow ids keep the historical shape 1 || chapter(2) || lesson(3), e.g. 101003.
	narrowBase       = 100_000
	narrowLessonSpan = 1_000
	narrowMaxChapter = 99
	narrowMaxLesson  = 999

	// wide ids cover everything else up to 99,999 per part: 2 || chapter(5) || lesson(5).
	wideBase       = 20_000_000_000
	wideLessonSpan = 100_000
	wideMaxPart    = 99_999
)

// ID is the canonical packed lesson identifier used everywhere inside the core.
type ID int64

// Ref identifies a lesson by chapter and lesson number.
// ChapterNo is zero when a legacy key only carried a lesson number.
type Ref struct {
	ChapterNo int `json:"chapter_no" db:"chapter_no"`
	LessonNo  int `json:"lesson_no" db:"lesson_no"`
}

// Pack encodes a chapter and lesson number into a stable integer id.
func Pack(chapterNo, lessonNo int) ID {
	if chapterNo >= 0 && chapterNo <= narrowMaxChapter && lessonNo >= 0 && lessonNo <= narrowMaxLesson {
		return ID(narrowBase + chapterNo*narrowLessonSpan + lessonNo)
	}
	return ID(wideBase + int64(chapterNo)*wideLessonSpan + int64(lessonNo))
}

// Unpack decodes an id produced by Pack.
func Unpack(id ID) (Ref, error) {
	switch {
	case id >= narrowBase && id < 2*narrowBase:
		n := int(id) - narrowBase
		return Ref{ChapterNo: n / narrowLessonSpan, LessonNo: n % narrowLessonSpan}, nil
	case id >= wideBase && id < 3*wideBase/2:
		n := int64(id) - wideBase
		return Ref{ChapterNo: int(n / wideLessonSpan), LessonNo: int(n % wideLessonSpan)}, nil
	}
	return Ref{}, fmt.Errorf("%w: %d is not a packed lesson id", ErrUnknownKey, id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Ref returns the chapter/lesson pair for the id. Invalid ids yield the zero Ref.
func (id ID) Ref() Ref {
	ref, _ := Unpack(id)
	return ref
}

func (r Ref) ID() ID {
	return Pack(r.ChapterNo, r.LessonNo)
}

// HasChapter reports whether the ref names a chapter; legacy bare keys do not.
func (r Ref) HasChapter() bool {
	return r.ChapterNo > 0
}

// Key returns the "chapter_lesson" shape used by older installs.
func (r Ref) Key() string {
	return fmt.Sprintf("%d_%d", r.ChapterNo, r.LessonNo)
}

// CompositeKey returns the oldest "ChX_LY" shape.
func (r Ref) CompositeKey() string {
	return fmt.Sprintf("Ch%d_L%d", r.ChapterNo, r.LessonNo)
}

func (r Ref) String() string {
	if !r.HasChapter() {
		return strconv.Itoa(r.LessonNo)
	}
	return r.Key()
}

var (
	compositeKeyPattern = regexp.MustCompile(`(?i)^ch(\d+)_l(\d+)$`)
	pairKeyPattern      = regexp.MustCompile(`^(\d+)[_-](\d+)$`)
)

// ParseRef parses any historical key shape: a packed id, "chapter_lesson", "chapter-lesson",
// "ChX_LY" or a bare lesson number. A bare lesson number yields a Ref without chapter.
func ParseRef(key string) (Ref, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Ref{}, fmt.Errorf("%w: empty key", ErrUnknownKey)
	}
	if m := compositeKeyPattern.FindStringSubmatch(key); m != nil {
		return refFromParts(key, m[1], m[2])
	}
	if m := pairKeyPattern.FindStringSubmatch(key); m != nil {
		return refFromParts(key, m[1], m[2])
	}
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil || n < 0 {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if ref, err := Unpack(ID(n)); err == nil {
		return ref, nil
	}
	if n > wideMaxPart {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return Ref{LessonNo: int(n)}, nil
}

// Resolve normalizes any historical key shape to the canonical id.
// Keys that do not name a chapter cannot be resolved.
func Resolve(key string) (ID, error) {
	ref, err := ParseRef(key)
	if err != nil {
		return 0, err
	}
	if !ref.HasChapter() {
		return 0, fmt.Errorf("%w: %q has no chapter", ErrUnknownKey, key)
	}
	return ref.ID(), nil
}

func refFromParts(key, chapter, lessonNo string) (Ref, error) {
	c, err := strconv.Atoi(chapter)
	if err != nil || c > wideMaxPart {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	l, err := strconv.Atoi(lessonNo)
	if err != nil || l > wideMaxPart {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return Ref{ChapterNo: c, LessonNo: l}, nil
}

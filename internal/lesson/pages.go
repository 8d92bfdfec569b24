package lesson

import (
	"fmt"
	"sort"
)

// Page is a rendered lesson page: dialogue lines, or a practice question.
type Page struct {
	Number   int
	Lines    []Line
	Question *Question
}

// BuildPages groups lines by page and overlays practice questions onto their pages.
// When only page 1 exists, page 2 repeats it.
func BuildPages(lines []Line, questions []Question, practice PracticeRange) map[int]Page {
	pages := make(map[int]Page)
	for _, line := range lines {
		n := line.Page
		if n <= 0 {
			n = 1
		}
		p := pages[n]
		p.Number = n
		p.Lines = append(p.Lines, line)
		pages[n] = p
	}

	if first, ok := pages[1]; ok {
		if _, ok := pages[2]; !ok {
			pages[2] = Page{Number: 2, Lines: append([]Line(nil), first.Lines...)}
		}
	}

	for i := range questions {
		q := questions[i]
		n := q.Page
		if n <= 0 {
			n = practice.First
		}
		pages[n] = Page{Number: n, Question: &q}
	}
	return pages
}

// Sections groups catalog rows by chapter title, keeping chapter order.
func Sections(metas []Meta) []Section {
	byTitle := make(map[string]*Section)
	var order []string
	for _, m := range metas {
		title := m.ChapterTitle
		if title == "" {
			title = fmt.Sprintf("Chapter %d", m.ChapterNo)
		}
		s, ok := byTitle[title]
		if !ok {
			s = &Section{Title: title}
			byTitle[title] = s
			order = append(order, title)
		}
		s.Lessons = append(s.Lessons, m)
	}

	sections := make([]Section, 0, len(order))
	for _, title := range order {
		s := byTitle[title]
		sort.SliceStable(s.Lessons, func(i, j int) bool {
			return s.Lessons[i].LessonNo < s.Lessons[j].LessonNo
		})
		sections = append(sections, *s)
	}
	return sections
}

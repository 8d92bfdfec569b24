package lesson

import "strings"

// PracticeRange is the contiguous range of pages that ask a question.
type PracticeRange struct {
	First int
	Last  int
}

func (r PracticeRange) Contains(page int) bool {
	return page >= r.First && page <= r.Last
}

// Verdict is the outcome of an answer check. Continuing always advances regardless of Correct.
type Verdict struct {
	Correct   bool
	Submitted string
	Expected  string
}

// CheckAnswer compares a submitted answer with the stored one,
// ignoring case and surrounding whitespace.
func CheckAnswer(submitted, expected string) Verdict {
	return Verdict{
		Correct:   strings.ToLower(strings.TrimSpace(submitted)) == strings.ToLower(strings.TrimSpace(expected)),
		Submitted: submitted,
		Expected:  expected,
	}
}

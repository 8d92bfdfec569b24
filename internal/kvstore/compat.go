package kvstore

import (
	"strconv"

	"github.com/at-ishikawa/lingosync/internal/lesson"
)

// LegacyKeys lists every key shape older installs used for the lesson in shared maps,
// canonical id first. A bare lesson number only names a lesson without a chapter.
func LegacyKeys(ref lesson.Ref) []string {
	keys := []string{ref.ID().String()}
	if !ref.HasChapter() {
		return append(keys, strconv.Itoa(ref.LessonNo))
	}
	return append(keys, ref.Key(), ref.CompositeKey())
}

// DownloadedKeys extends LegacyKeys with the bare lesson number, which older installs also
// wrote to the downloaded map for lessons that had a chapter.
func DownloadedKeys(ref lesson.Ref) []string {
	keys := LegacyKeys(ref)
	if ref.HasChapter() {
		keys = append(keys, strconv.Itoa(ref.LessonNo))
	}
	return keys
}

// Lookup returns the value stored under the first key shape present in m.
func Lookup[V any](m map[string]V, ref lesson.Ref) (V, bool) {
	return lookupKeys(m, LegacyKeys(ref))
}

// LookupDownloaded is Lookup over DownloadedKeys.
func LookupDownloaded[V any](m map[string]V, ref lesson.Ref) (V, bool) {
	return lookupKeys(m, DownloadedKeys(ref))
}

func lookupKeys[V any](m map[string]V, keys []string) (V, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Canonicalize rewrites keys of m to canonical ids. Keys that cannot be resolved are kept as they are.
// When several shapes name the same lesson, merge combines their values.
func Canonicalize[V any](m map[string]V, merge func(a, b V) V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		key := k
		if id, err := lesson.Resolve(k); err == nil {
			key = id.String()
		}
		if prev, ok := out[key]; ok {
			v = merge(prev, v)
		}
		out[key] = v
	}
	return out
}

package vocab

import "time"

func SetClock(t *Tracker, now func() time.Time) {
	t.now = now
}

func SetIDGenerator(t *Tracker, newID func() string) {
	t.newID = newID
}

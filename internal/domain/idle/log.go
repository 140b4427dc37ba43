package idle

import "time"

// LogCapacity bounds the narration kept in state.
const LogCapacity = 100

type LogEntry struct {
	Seq     int64     `json:"seq"`
	Message string    `json:"message"`
	At      time.Time `json:"timestamp"`
}

// ActionLog is the human-readable narration, newest entry first.
type ActionLog struct {
	Entries []LogEntry `json:"entries"`
	LastSeq int64      `json:"last_seq"`
}

// Add prepends an entry and evicts the oldest once the log is full.
func (l *ActionLog) Add(message string, at time.Time) LogEntry {
	l.LastSeq++
	e := LogEntry{Seq: l.LastSeq, Message: message, At: at}
	n := len(l.Entries) + 1
	if n > LogCapacity {
		n = LogCapacity
	}
	next := make([]LogEntry, n)
	next[0] = e
	copy(next[1:], l.Entries)
	l.Entries = next
	return e
}

// Rebase shifts every sequence number so the oldest entry sorts after seq.
// LastSeq never ends up below seq.
func (l *ActionLog) Rebase(seq int64) {
	if len(l.Entries) == 0 {
		l.LastSeq = max(l.LastSeq, seq)
		return
	}
	oldest := l.Entries[len(l.Entries)-1].Seq
	if oldest > seq {
		return
	}
	shift := seq + 1 - oldest
	for i := range l.Entries {
		l.Entries[i].Seq += shift
	}
	l.LastSeq += shift
}

func (l ActionLog) Len() int {
	return len(l.Entries)
}

// Since returns entries with Seq > seq, oldest first.
func (l ActionLog) Since(seq int64) []LogEntry {
	out := make([]LogEntry, 0)
	for i := len(l.Entries) - 1; i >= 0; i-- {
		if l.Entries[i].Seq > seq {
			out = append(out, l.Entries[i])
		}
	}
	return out
}

// Latest returns up to limit newest entries, newest first.
func (l ActionLog) Latest(limit int) []LogEntry {
	if limit <= 0 || limit > len(l.Entries) {
		limit = len(l.Entries)
	}
	out := make([]LogEntry, limit)
	copy(out, l.Entries[:limit])
	return out
}

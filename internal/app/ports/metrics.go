package ports

import "idlerpg/internal/domain/idle"

type GameMetrics interface {
	RecordEvent(eventType idle.EventType)
	RecordRejection(reason idle.Reason)
	RecordSave()
	RecordConflict()
	RecordFailure()
}

package annotate

import (
	"log"

	"metascan/internal/semtype"
)

// Recorder receives one human-readable decision record per classification.
// Calls are fire-and-forget; implementations must not block the sweep and
// must be safe for concurrent use.
type Recorder interface {
	FieldClassified(table, field string, storage, semantic semtype.Type)
	TableClassified(table string, entity semtype.Type)
}

// NopRecorder discards all decision records.
type NopRecorder struct{}

func (NopRecorder) FieldClassified(string, string, semtype.Type, semtype.Type) {}
func (NopRecorder) TableClassified(string, semtype.Type)                       {}

// LogRecorder writes decision records to the standard logger. "no inference"
// decisions are logged too; they are normal outcomes, and silence would make
// sweeps harder to audit.
type LogRecorder struct{}

func (LogRecorder) FieldClassified(table, field string, storage, semantic semtype.Type) {
	if semantic == "" {
		log.Printf("field %s.%s (%s): no inference", table, field, storage)
		return
	}
	log.Printf("field %s.%s (%s) classified as %s", table, field, storage, semantic)
}

func (LogRecorder) TableClassified(table string, entity semtype.Type) {
	log.Printf("table %s classified as %s", table, entity)
}

var (
	_ Recorder = NopRecorder{}
	_ Recorder = LogRecorder{}
)

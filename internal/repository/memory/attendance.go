package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/attendance"
	"github.com/google/uuid"
)

type recordKey struct {
	eventID   string
	studentID string
	recType   string
}

type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[recordKey]attendance.Record
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[recordKey]attendance.Record)}
}

func (r *AttendanceRepository) Insert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{rec.EventID, rec.StudentID, rec.Type}
	if _, ok := r.records[key]; ok {
		if rec.Type == attendance.TypeSignOut {
			return attendance.Record{}, attendance.ErrAlreadySignedOut
		}
		return attendance.Record{}, attendance.ErrAlreadySignedIn
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	r.records[key] = rec
	return rec, nil
}

func (r *AttendanceRepository) Find(ctx context.Context, eventID, studentID, recordType string) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[recordKey{eventID, studentID, recordType}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []attendance.Record
	for key, rec := range r.records {
		if key.eventID == eventID {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []attendance.Record
	for key, rec := range r.records {
		if key.studentID == studentID {
			records = append(records, rec)
		}
	}
	sortRecords(records)
	return records, nil
}

func sortRecords(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

func (r *AttendanceRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.records {
		if key.eventID == eventID {
			delete(r.records, key)
		}
	}
	return nil
}

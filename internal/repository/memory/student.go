package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/google/uuid"
)

type StudentRepository struct {
	mu       sync.RWMutex
	students map[string]student.Student
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: make(map[string]student.Student)}
}

func (r *StudentRepository) Create(ctx context.Context, s student.Student) (student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.students {
		if existing.StudentID == s.StudentID {
			return student.Student{}, student.ErrStudentIDExists
		}
	}

	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.students[s.ID] = s
	return s, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return student.Student{}, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return student.Student{}, student.ErrStudentNotFound
}

func (r *StudentRepository) List(ctx context.Context) ([]student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedStudents(r.students, ""), nil
}

func (r *StudentRepository) ListByStatus(ctx context.Context, status string) ([]student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedStudents(r.students, status), nil
}

func sortedStudents(m map[string]student.Student, status string) []student.Student {
	students := make([]student.Student, 0, len(m))
	for _, s := range m {
		if status != "" && s.Status != status {
			continue
		}
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students
}

func (r *StudentRepository) Update(ctx context.Context, s student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.students[s.ID]
	if !ok {
		return student.ErrStudentNotFound
	}
	for id, other := range r.students {
		if id != s.ID && other.StudentID == s.StudentID {
			return student.ErrStudentIDExists
		}
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	r.students[s.ID] = s
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return student.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

package student

import (
	"context"
	"fmt"
	"time"

	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/go-chi/jwtauth/v5"
)

type StudentServiceImpl struct {
	student.StudentRepository
}

func toResponse(s student.Student) student.StudentResponse {
	return student.StudentResponse{
		ID:        s.ID,
		StudentID: s.StudentID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Course:    s.Course,
		YearLevel: s.YearLevel,
		Section:   s.Section,
		Status:    s.Status,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *StudentServiceImpl) create(ctx context.Context, req student.CreateStudentRequest, status string) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}

	created, err := s.StudentRepository.Create(ctx, student.Student{
		StudentID: req.StudentID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Course:    req.Course,
		YearLevel: req.YearLevel,
		Section:   req.Section,
		Status:    status,
	})
	if err != nil {
		return student.StudentResponse{}, err
	}

	return toResponse(created), nil
}

// CreateStudent implements student.StudentService. Staff-entered students
// skip the approval queue.
func (s *StudentServiceImpl) CreateStudent(ctx context.Context, req student.CreateStudentRequest) (student.StudentResponse, error) {
	return s.create(ctx, req, student.StatusApproved)
}

// Register implements student.StudentService.
func (s *StudentServiceImpl) Register(ctx context.Context, req student.RegisterStudentRequest) (student.StudentResponse, error) {
	return s.create(ctx, req.CreateStudentRequest, student.StatusPending)
}

// Approve implements student.StudentService.
func (s *StudentServiceImpl) Approve(ctx context.Context, id string) (student.StudentResponse, error) {
	st, err := s.StudentRepository.GetByID(ctx, id)
	if err != nil {
		return student.StudentResponse{}, err
	}
	if st.Status != student.StatusPending {
		return student.StudentResponse{}, student.ErrAlreadyProcessed
	}

	st.Status = student.StatusApproved
	if err := s.StudentRepository.Update(ctx, st); err != nil {
		return student.StudentResponse{}, err
	}

	return toResponse(st), nil
}

// Reject implements student.StudentService. Rejection deletes the pending
// account; the student may register again.
func (s *StudentServiceImpl) Reject(ctx context.Context, id string) error {
	st, err := s.StudentRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if st.Status != student.StatusPending {
		return student.ErrAlreadyProcessed
	}
	return s.StudentRepository.Delete(ctx, id)
}

// GetStudent implements student.StudentService.
func (s *StudentServiceImpl) GetStudent(ctx context.Context, id string) (student.StudentResponse, error) {
	st, err := s.StudentRepository.GetByID(ctx, id)
	if err != nil {
		return student.StudentResponse{}, err
	}
	return toResponse(st), nil
}

// ListStudents implements student.StudentService.
func (s *StudentServiceImpl) ListStudents(ctx context.Context) ([]student.StudentResponse, error) {
	students, err := s.StudentRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(students), nil
}

// ListPending implements student.StudentService.
func (s *StudentServiceImpl) ListPending(ctx context.Context) ([]student.StudentResponse, error) {
	students, err := s.StudentRepository.ListByStatus(ctx, student.StatusPending)
	if err != nil {
		return nil, err
	}
	return toResponses(students), nil
}

func toResponses(students []student.Student) []student.StudentResponse {
	responses := make([]student.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, toResponse(st))
	}
	return responses
}

// UpdateStudent implements student.StudentService.
func (s *StudentServiceImpl) UpdateStudent(ctx context.Context, req student.UpdateStudentRequest) (student.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return student.StudentResponse{}, err
	}

	st, err := s.StudentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return student.StudentResponse{}, err
	}

	st.StudentID = req.StudentID
	st.FirstName = req.FirstName
	st.LastName = req.LastName
	st.Email = req.Email
	st.Course = req.Course
	st.YearLevel = req.YearLevel
	st.Section = req.Section

	if err := s.StudentRepository.Update(ctx, st); err != nil {
		return student.StudentResponse{}, err
	}

	return s.GetStudent(ctx, req.ID)
}

// UpdateProfile implements student.StudentService. The session's student_id
// claim names the subject; the three placement fields are the only ones a
// student can change about themself.
func (s *StudentServiceImpl) UpdateProfile(ctx context.Context, req student.UpdateProfileRequest) (student.StudentResponse, error) {
	studentID, err := sessionStudentID(ctx)
	if err != nil {
		return student.StudentResponse{}, err
	}

	st, err := s.StudentRepository.GetByStudentID(ctx, studentID)
	if err != nil {
		return student.StudentResponse{}, err
	}

	st.Course = req.Course
	st.YearLevel = req.YearLevel
	st.Section = req.Section

	if err := s.StudentRepository.Update(ctx, st); err != nil {
		return student.StudentResponse{}, err
	}

	return s.GetStudent(ctx, st.ID)
}

func sessionStudentID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: no claims in context", session.ErrSessionInvalid)
	}

	studentID, ok := claims["student_id"].(string)
	if !ok || studentID == "" {
		return "", fmt.Errorf("%w: student_id claim missing", session.ErrSessionInvalid)
	}
	return studentID, nil
}

// DeleteStudent implements student.StudentService.
func (s *StudentServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	return s.StudentRepository.Delete(ctx, id)
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo student.StudentRepository) student.StudentService {
	return &StudentServiceImpl{StudentRepository: studentRepo}
}

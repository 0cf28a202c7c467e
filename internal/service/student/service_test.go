package student

import (
	"context"
	"testing"

	"github.com/KilluwheQT/qrams2.0/internal/domain/session"
	"github.com/KilluwheQT/qrams2.0/internal/domain/student"
	"github.com/KilluwheQT/qrams2.0/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() student.StudentService {
	return NewStudentService(memory.NewStudentRepository())
}

func createRequest(studentID string) student.CreateStudentRequest {
	return student.CreateStudentRequest{
		StudentID: studentID,
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Email:     "juan@example.edu.ph",
		Course:    "BSIT",
		YearLevel: "3",
		Section:   "A",
	}
}

func TestCreateStudentIsApproved(t *testing.T) {
	svc := newService()

	resp, err := svc.CreateStudent(context.Background(), createRequest("2021-00123"))
	require.NoError(t, err)
	assert.Equal(t, student.StatusApproved, resp.Status)
	assert.NotEmpty(t, resp.ID)
}

func TestRegisterIsPending(t *testing.T) {
	svc := newService()

	resp, err := svc.Register(context.Background(), student.RegisterStudentRequest{
		CreateStudentRequest: createRequest("2021-00123"),
	})
	require.NoError(t, err)
	assert.Equal(t, student.StatusPending, resp.Status)
}

func TestCreateStudentValidation(t *testing.T) {
	svc := newService()

	tests := []struct {
		name   string
		mutate func(*student.CreateStudentRequest)
	}{
		{"missing student_id", func(r *student.CreateStudentRequest) { r.StudentID = "" }},
		{"malformed student_id", func(r *student.CreateStudentRequest) { r.StudentID = "abc-123" }},
		{"missing first name", func(r *student.CreateStudentRequest) { r.FirstName = "" }},
		{"missing last name", func(r *student.CreateStudentRequest) { r.LastName = "" }},
		{"bad email", func(r *student.CreateStudentRequest) { r.Email = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest("2021-00123")
			tt.mutate(&req)
			_, err := svc.CreateStudent(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestCreateStudentDuplicateID(t *testing.T) {
	svc := newService()

	_, err := svc.CreateStudent(context.Background(), createRequest("2021-00123"))
	require.NoError(t, err)

	_, err = svc.CreateStudent(context.Background(), createRequest("2021-00123"))
	assert.ErrorIs(t, err, student.ErrStudentIDExists)
}

func TestApproveFlow(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	pending, err := svc.Register(ctx, student.RegisterStudentRequest{
		CreateStudentRequest: createRequest("2021-00123"),
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, student.StatusApproved, approved.Status)

	// Approving twice is a conflict.
	_, err = svc.Approve(ctx, pending.ID)
	assert.ErrorIs(t, err, student.ErrAlreadyProcessed)
}

func TestRejectDeletesPending(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	pending, err := svc.Register(ctx, student.RegisterStudentRequest{
		CreateStudentRequest: createRequest("2021-00123"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, pending.ID))

	_, err = svc.GetStudent(ctx, pending.ID)
	assert.ErrorIs(t, err, student.ErrStudentNotFound)

	// The student ID is free to register again.
	_, err = svc.Register(ctx, student.RegisterStudentRequest{
		CreateStudentRequest: createRequest("2021-00123"),
	})
	assert.NoError(t, err)
}

func TestRejectApprovedStudent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, createRequest("2021-00123"))
	require.NoError(t, err)

	err = svc.Reject(ctx, created.ID)
	assert.ErrorIs(t, err, student.ErrAlreadyProcessed)
}

func TestListPending(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateStudent(ctx, createRequest("2021-00001"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, student.RegisterStudentRequest{
		CreateStudentRequest: createRequest("2021-00002"),
	})
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "2021-00002", pending[0].StudentID)

	all, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateStudent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, createRequest("2021-00123"))
	require.NoError(t, err)

	req := student.UpdateStudentRequest{ID: created.ID, CreateStudentRequest: createRequest("2021-00123")}
	req.Section = "C"
	updated, err := svc.UpdateStudent(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Section)
	assert.Equal(t, student.StatusApproved, updated.Status)
}

// profileCtx carries the session claims the self-service edit reads, the same
// shape the verifier middleware produces.
func profileCtx(t *testing.T, studentID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"sid":        "test-session",
		"student_id": studentID,
		"role":       "student",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestUpdateProfile(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateStudent(ctx, createRequest("2021-00123"))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(profileCtx(t, "2021-00123"), student.UpdateProfileRequest{
		Course:    "BSCS",
		YearLevel: "4",
		Section:   "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "BSCS", updated.Course)
	assert.Equal(t, "4", updated.YearLevel)
	assert.Equal(t, "B", updated.Section)

	// Identity fields stay untouched.
	assert.Equal(t, "2021-00123", updated.StudentID)
	assert.Equal(t, "Juan", updated.FirstName)
	assert.Equal(t, student.StatusApproved, updated.Status)
}

func TestUpdateProfileWithoutSession(t *testing.T) {
	svc := newService()

	_, err := svc.UpdateProfile(context.Background(), student.UpdateProfileRequest{Section: "B"})
	assert.ErrorIs(t, err, session.ErrSessionInvalid)
}

func TestUpdateProfileUnknownStudent(t *testing.T) {
	svc := newService()

	_, err := svc.UpdateProfile(profileCtx(t, "2021-00999"), student.UpdateProfileRequest{Section: "B"})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

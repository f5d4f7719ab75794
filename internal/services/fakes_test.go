package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

// fakeStore is the shared in-memory state behind the fake repository. The
// fakes surface the same gorm sentinels the real store does so error
// classification stays identical.
type fakeStore struct {
	classrooms       map[uuid.UUID]*models.Classroom
	members          []*models.ClassroomMember
	lessons          map[uuid.UUID]*models.Lesson
	assignments      map[uuid.UUID]*models.Assignment
	submissions      []*models.AssignmentSubmission
	exams            map[uuid.UUID]*models.Exam
	questions        []*models.ExamQuestion
	attempts         []*models.ExamAttempt
	sessions         map[uuid.UUID]*models.AttendanceSession
	records          []*models.AttendanceRecord
	institutes       map[uuid.UUID]*models.Institute
	instituteMembers []*models.InstituteMember
	users            map[string]*models.User
}

type fakeRepository struct {
	store *fakeStore
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{store: &fakeStore{
		classrooms:  make(map[uuid.UUID]*models.Classroom),
		lessons:     make(map[uuid.UUID]*models.Lesson),
		assignments: make(map[uuid.UUID]*models.Assignment),
		exams:       make(map[uuid.UUID]*models.Exam),
		sessions:    make(map[uuid.UUID]*models.AttendanceSession),
		institutes:  make(map[uuid.UUID]*models.Institute),
		users:       make(map[string]*models.User),
	}}
}

func (r *fakeRepository) Classroom() repositories.ClassroomRepository {
	return &fakeClassroomRepo{r.store}
}
func (r *fakeRepository) Member() repositories.MemberRepository { return &fakeMemberRepo{r.store} }
func (r *fakeRepository) Lesson() repositories.LessonRepository { return &fakeLessonRepo{r.store} }
func (r *fakeRepository) Assignment() repositories.AssignmentRepository {
	return &fakeAssignmentRepo{r.store}
}
func (r *fakeRepository) Submission() repositories.SubmissionRepository {
	return &fakeSubmissionRepo{r.store}
}
func (r *fakeRepository) Exam() repositories.ExamRepository { return &fakeExamRepo{r.store} }
func (r *fakeRepository) ExamQuestion() repositories.ExamQuestionRepository {
	return &fakeQuestionRepo{r.store}
}
func (r *fakeRepository) ExamAttempt() repositories.ExamAttemptRepository {
	return &fakeAttemptRepo{r.store}
}
func (r *fakeRepository) Attendance() repositories.AttendanceRepository {
	return &fakeAttendanceRepo{r.store}
}
func (r *fakeRepository) Institute() repositories.InstituteRepository {
	return &fakeInstituteRepo{r.store}
}
func (r *fakeRepository) Stats() repositories.StatsRepository { return &fakeStatsRepo{r.store} }
func (r *fakeRepository) User() repositories.UserRepository   { return &fakeUserRepo{r.store} }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// ===== CLASSROOMS =====

type fakeClassroomRepo struct{ store *fakeStore }

func (f *fakeClassroomRepo) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == uuid.Nil {
		classroom.ID = uuid.New()
	}
	classroom.CreatedAt = time.Now().UTC()
	f.store.classrooms[classroom.ID] = classroom
	return nil
}

func (f *fakeClassroomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error) {
	classroom, ok := f.store.classrooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return classroom, nil
}

func (f *fakeClassroomRepo) List(ctx context.Context, filters repositories.ClassroomFilters) ([]*models.Classroom, int64, error) {
	var out []*models.Classroom
	for _, c := range f.store.classrooms {
		if !filters.IncludeArchived && c.IsArchived {
			continue
		}
		if filters.OwnerID != nil && c.OwnerID != *filters.OwnerID {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeClassroomRepo) Update(ctx context.Context, classroom *models.Classroom) error {
	if _, ok := f.store.classrooms[classroom.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.store.classrooms[classroom.ID] = classroom
	return nil
}

func (f *fakeClassroomRepo) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	classroom, ok := f.store.classrooms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	classroom.IsArchived = archived
	return nil
}

func (f *fakeClassroomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store.classrooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.classrooms, id)
	return nil
}

// ===== MEMBERS =====

type fakeMemberRepo struct{ store *fakeStore }

func (f *fakeMemberRepo) Create(ctx context.Context, member *models.ClassroomMember) error {
	for _, m := range f.store.members {
		if m.ClassroomID == member.ClassroomID && m.UserID == member.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	f.store.members = append(f.store.members, member)
	return nil
}

func (f *fakeMemberRepo) Get(ctx context.Context, classroomID uuid.UUID, userID string) (*models.ClassroomMember, error) {
	for _, m := range f.store.members {
		if m.ClassroomID == classroomID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) List(ctx context.Context, classroomID uuid.UUID, filters repositories.MemberFilters) ([]*models.ClassroomMember, int64, error) {
	var out []*models.ClassroomMember
	for _, m := range f.store.members {
		if m.ClassroomID != classroomID {
			continue
		}
		if filters.Role != nil && m.Role != *filters.Role {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMemberRepo) UpdateRole(ctx context.Context, classroomID uuid.UUID, userID string, role models.ClassroomRole) error {
	for _, m := range f.store.members {
		if m.ClassroomID == classroomID && m.UserID == userID {
			m.Role = role
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) Delete(ctx context.Context, classroomID uuid.UUID, userID string) error {
	for i, m := range f.store.members {
		if m.ClassroomID == classroomID && m.UserID == userID {
			f.store.members = append(f.store.members[:i], f.store.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) Count(ctx context.Context, classroomID uuid.UUID) (int64, error) {
	var n int64
	for _, m := range f.store.members {
		if m.ClassroomID == classroomID {
			n++
		}
	}
	return n, nil
}

// ===== LESSONS =====

type fakeLessonRepo struct{ store *fakeStore }

func (f *fakeLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	f.store.lessons[lesson.ID] = lesson
	return nil
}

func (f *fakeLessonRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	lesson, ok := f.store.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (f *fakeLessonRepo) ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.Lesson, error) {
	var out []*models.Lesson
	for _, l := range f.store.lessons {
		if l.ClassroomID == classroomID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeLessonRepo) CountByClassroom(ctx context.Context, classroomID uuid.UUID) (int64, error) {
	var n int64
	for _, l := range f.store.lessons {
		if l.ClassroomID == classroomID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	if _, ok := f.store.lessons[lesson.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.store.lessons[lesson.ID] = lesson
	return nil
}

func (f *fakeLessonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store.lessons[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.lessons, id)
	return nil
}

// ===== ASSIGNMENTS =====

type fakeAssignmentRepo struct{ store *fakeStore }

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	f.store.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	assignment, ok := f.store.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range f.store.assignments {
		if a.ClassroomID == classroomID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := f.store.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.store.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.assignments, id)
	return nil
}

// ===== SUBMISSIONS =====

type fakeSubmissionRepo struct{ store *fakeStore }

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.AssignmentSubmission) error {
	for _, s := range f.store.submissions {
		if s.AssignmentID == submission.AssignmentID && s.StudentID == submission.StudentID && s.AttemptNumber == submission.AttemptNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	f.store.submissions = append(f.store.submissions, submission)
	return nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AssignmentSubmission, error) {
	for _, s := range f.store.submissions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) GetLatest(ctx context.Context, assignmentID uuid.UUID, studentID string) (*models.AssignmentSubmission, error) {
	for _, s := range f.store.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID && s.IsLatest {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) ListHistory(ctx context.Context, assignmentID uuid.UUID, studentID string) ([]*models.AssignmentSubmission, error) {
	var out []*models.AssignmentSubmission
	for _, s := range f.store.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}

func (f *fakeSubmissionRepo) ListLatestByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*models.AssignmentSubmission, error) {
	var out []*models.AssignmentSubmission
	for _, s := range f.store.submissions {
		if s.AssignmentID == assignmentID && s.IsLatest {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) CountAttempts(ctx context.Context, assignmentID uuid.UUID, studentID string) (int64, error) {
	var n int64
	for _, s := range f.store.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubmissionRepo) MarkAllStale(ctx context.Context, assignmentID uuid.UUID, studentID string) error {
	for _, s := range f.store.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			s.IsLatest = false
		}
	}
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.AssignmentSubmission) error {
	for i, s := range f.store.submissions {
		if s.ID == submission.ID {
			f.store.submissions[i] = submission
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ===== EXAMS =====

type fakeExamRepo struct{ store *fakeStore }

func (f *fakeExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == uuid.Nil {
		exam.ID = uuid.New()
	}
	f.store.exams[exam.ID] = exam
	return nil
}

func (f *fakeExamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	exam, ok := f.store.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (f *fakeExamRepo) GetByIDWithQuestions(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	exam, ok := f.store.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *exam
	clone.Questions = nil
	for _, q := range f.store.questions {
		if q.ExamID == id {
			clone.Questions = append(clone.Questions, *q)
		}
	}
	sort.Slice(clone.Questions, func(i, j int) bool {
		return clone.Questions[i].SortOrder < clone.Questions[j].SortOrder
	})
	return &clone, nil
}

func (f *fakeExamRepo) ListByClassroom(ctx context.Context, classroomID uuid.UUID, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	var out []*models.Exam
	for _, e := range f.store.exams {
		if e.ClassroomID != classroomID {
			continue
		}
		if filters.PublishedOnly && !e.IsPublished {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeExamRepo) Update(ctx context.Context, exam *models.Exam) error {
	if _, ok := f.store.exams[exam.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.store.exams[exam.ID] = exam
	return nil
}

func (f *fakeExamRepo) Publish(ctx context.Context, id uuid.UUID) error {
	exam, ok := f.store.exams[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	exam.IsPublished = true
	return nil
}

func (f *fakeExamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.exams, id)
	return nil
}

// ===== EXAM QUESTIONS =====

type fakeQuestionRepo struct{ store *fakeStore }

func (f *fakeQuestionRepo) Create(ctx context.Context, question *models.ExamQuestion) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	f.store.questions = append(f.store.questions, question)
	return nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamQuestion, error) {
	for _, q := range f.store.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) ListByExam(ctx context.Context, examID uuid.UUID) ([]*models.ExamQuestion, error) {
	var out []*models.ExamQuestion
	for _, q := range f.store.questions {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeQuestionRepo) CountByExam(ctx context.Context, examID uuid.UUID) (int64, error) {
	var n int64
	for _, q := range f.store.questions {
		if q.ExamID == examID {
			n++
		}
	}
	return n, nil
}

func (f *fakeQuestionRepo) Update(ctx context.Context, question *models.ExamQuestion) error {
	for i, q := range f.store.questions {
		if q.ID == question.ID {
			f.store.questions[i] = question
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, q := range f.store.questions {
		if q.ID == id {
			f.store.questions = append(f.store.questions[:i], f.store.questions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ===== EXAM ATTEMPTS =====

type fakeAttemptRepo struct{ store *fakeStore }

func (f *fakeAttemptRepo) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	f.store.attempts = append(f.store.attempts, attempt)
	return nil
}

func (f *fakeAttemptRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamAttempt, error) {
	for _, a := range f.store.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptRepo) ListByExam(ctx context.Context, examID uuid.UUID) ([]*models.ExamAttempt, error) {
	var out []*models.ExamAttempt
	for _, a := range f.store.attempts {
		if a.ExamID == examID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) ListByExamStudent(ctx context.Context, examID uuid.UUID, studentID string) ([]*models.ExamAttempt, error) {
	var out []*models.ExamAttempt
	for _, a := range f.store.attempts {
		if a.ExamID == examID && a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ===== ATTENDANCE =====

type fakeAttendanceRepo struct{ store *fakeStore }

func (f *fakeAttendanceRepo) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	f.store.sessions[session.ID] = session
	return nil
}

func (f *fakeAttendanceRepo) GetSession(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error) {
	session, ok := f.store.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeAttendanceRepo) ListSessionsByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.AttendanceSession, error) {
	var out []*models.AttendanceSession
	for _, s := range f.store.sessions {
		if s.ClassroomID == classroomID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenAt.After(out[j].OpenAt) })
	return out, nil
}

func (f *fakeAttendanceRepo) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	for _, r := range f.store.records {
		if r.SessionID == record.SessionID && r.StudentID == record.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.store.records = append(f.store.records, record)
	return nil
}

func (f *fakeAttendanceRepo) GetRecord(ctx context.Context, sessionID uuid.UUID, studentID string) (*models.AttendanceRecord, error) {
	for _, r := range f.store.records {
		if r.SessionID == sessionID && r.StudentID == studentID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) ListRecords(ctx context.Context, sessionID uuid.UUID) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, r := range f.store.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckedInAt.Before(out[j].CheckedInAt) })
	return out, nil
}

func (f *fakeAttendanceRepo) CountRecords(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range f.store.records {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

// ===== INSTITUTES =====

type fakeInstituteRepo struct{ store *fakeStore }

func (f *fakeInstituteRepo) Create(ctx context.Context, institute *models.Institute) error {
	if institute.ID == uuid.Nil {
		institute.ID = uuid.New()
	}
	f.store.institutes[institute.ID] = institute
	return nil
}

func (f *fakeInstituteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error) {
	institute, ok := f.store.institutes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return institute, nil
}

func (f *fakeInstituteRepo) Update(ctx context.Context, institute *models.Institute) error {
	if _, ok := f.store.institutes[institute.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.store.institutes[institute.ID] = institute
	return nil
}

func (f *fakeInstituteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.store.institutes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.institutes, id)
	return nil
}

func (f *fakeInstituteRepo) AddMember(ctx context.Context, member *models.InstituteMember) error {
	for _, m := range f.store.instituteMembers {
		if m.InstituteID == member.InstituteID && m.UserID == member.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	f.store.instituteMembers = append(f.store.instituteMembers, member)
	return nil
}

func (f *fakeInstituteRepo) GetMember(ctx context.Context, instituteID uuid.UUID, userID string) (*models.InstituteMember, error) {
	for _, m := range f.store.instituteMembers {
		if m.InstituteID == instituteID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInstituteRepo) ListMembers(ctx context.Context, instituteID uuid.UUID, filters repositories.InstituteMemberFilters) ([]*models.InstituteMember, int64, error) {
	var out []*models.InstituteMember
	for _, m := range f.store.instituteMembers {
		if m.InstituteID != instituteID {
			continue
		}
		if filters.Role != nil && m.Role != *filters.Role {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInstituteRepo) UpdateMember(ctx context.Context, member *models.InstituteMember) error {
	for i, m := range f.store.instituteMembers {
		if m.ID == member.ID {
			f.store.instituteMembers[i] = member
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeInstituteRepo) RemoveMember(ctx context.Context, instituteID uuid.UUID, userID string) error {
	for i, m := range f.store.instituteMembers {
		if m.InstituteID == instituteID && m.UserID == userID {
			f.store.instituteMembers = append(f.store.instituteMembers[:i], f.store.instituteMembers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ===== STATS =====

type fakeStatsRepo struct{ store *fakeStore }

func (f *fakeStatsRepo) ClassroomOverview(ctx context.Context, classroomID uuid.UUID) (*repositories.ClassroomOverview, error) {
	overview := &repositories.ClassroomOverview{}
	for _, m := range f.store.members {
		if m.ClassroomID == classroomID && m.Role == models.RoleStudent {
			overview.StudentCount++
		}
	}
	for _, l := range f.store.lessons {
		if l.ClassroomID == classroomID {
			overview.LessonCount++
		}
	}
	for _, a := range f.store.assignments {
		if a.ClassroomID == classroomID {
			overview.AssignmentCount++
		}
	}
	for _, s := range f.store.sessions {
		if s.ClassroomID == classroomID {
			overview.SessionCount++
		}
	}
	examIDs := make(map[uuid.UUID]bool)
	for _, e := range f.store.exams {
		if e.ClassroomID == classroomID {
			examIDs[e.ID] = true
			if e.IsPublished {
				overview.PublishedExamCount++
			}
		}
	}
	var total float64
	for _, a := range f.store.attempts {
		if examIDs[a.ExamID] {
			overview.AttemptCount++
			total += a.Score
		}
	}
	if overview.AttemptCount > 0 {
		overview.AverageExamScore = total / float64(overview.AttemptCount)
	}
	return overview, nil
}

func (f *fakeStatsRepo) StudentScoreTotals(ctx context.Context, classroomID uuid.UUID) ([]*repositories.StudentScoreTotal, error) {
	examIDs := make(map[uuid.UUID]bool)
	for _, e := range f.store.exams {
		if e.ClassroomID == classroomID {
			examIDs[e.ID] = true
		}
	}
	totals := make(map[string]*repositories.StudentScoreTotal)
	var order []string
	for _, a := range f.store.attempts {
		if !examIDs[a.ExamID] {
			continue
		}
		t, ok := totals[a.StudentID]
		if !ok {
			t = &repositories.StudentScoreTotal{StudentID: a.StudentID}
			totals[a.StudentID] = t
			order = append(order, a.StudentID)
		}
		t.TotalScore += a.Score
		t.AttemptCount++
	}
	out := make([]*repositories.StudentScoreTotal, 0, len(totals))
	for _, id := range order {
		out = append(out, totals[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out, nil
}

// ===== USERS =====

type fakeUserRepo struct{ store *fakeStore }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User)
	for _, id := range ids {
		if user, ok := f.store.users[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ===== TEST HELPERS =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	repo      *fakeRepository
	validator *validator.Validator
	publisher *events.MockEventPublisher
	logger    *slog.Logger
}

func newTestEnv() *testEnv {
	logger := testLogger()
	return &testEnv{
		repo:      newFakeRepository(),
		validator: validator.New(),
		publisher: events.NewMockEventPublisher(logger),
		logger:    logger,
	}
}

func (e *testEnv) addUser(id, name string) {
	e.repo.store.users[id] = &models.User{ID: id, FullName: name, Email: id + "@example.com"}
}

func (e *testEnv) seedClassroom(ownerID string, enrollment models.EnrollmentType, accessCode *string) *models.Classroom {
	classroom := &models.Classroom{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Title:          "Algorithms 101",
		EnrollmentType: enrollment,
		AccessCode:     accessCode,
	}
	e.repo.store.classrooms[classroom.ID] = classroom
	e.repo.store.members = append(e.repo.store.members, &models.ClassroomMember{
		ID:          uuid.New(),
		ClassroomID: classroom.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		JoinedAt:    time.Now().UTC(),
	})
	return classroom
}

func (e *testEnv) addMember(classroomID uuid.UUID, userID string, role models.ClassroomRole) {
	e.repo.store.members = append(e.repo.store.members, &models.ClassroomMember{
		ID:          uuid.New(),
		ClassroomID: classroomID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	})
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

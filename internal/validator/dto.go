package validator

import "time"

// Classroom DTOs

type CreateClassroomRequest struct {
	Title          string   `json:"title" validate:"required,min=1,max=200"`
	Description    string   `json:"description" validate:"max=2000"`
	EnrollmentType string   `json:"enrollment_type" validate:"required,enrollment_type"`
	AccessCode     string   `json:"access_code" validate:"max=100"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	InstituteID    *string  `json:"institute_id" validate:"omitempty,uuid"`
}

type UpdateClassroomRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=2000"`
	EnrollmentType *string  `json:"enrollment_type" validate:"omitempty,enrollment_type"`
	AccessCode     *string  `json:"access_code" validate:"omitempty,max=100"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
}

type JoinClassroomRequest struct {
	AccessCode string `json:"access_code" validate:"max=128"`
}

// Lesson DTOs

type CreateLessonRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"max=50000"`
	VideoURL string `json:"video_url" validate:"omitempty,url,max=500"`
}

type UpdateLessonRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content     *string `json:"content" validate:"omitempty,max=50000"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url,max=500"`
	IsPublished *bool   `json:"is_published"`
}

// Assignment DTOs

type CreateAssignmentRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	MaxScore    *int       `json:"max_score" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateAssignmentRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	MaxScore    *int       `json:"max_score" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

type SubmitAssignmentRequest struct {
	Content  string   `json:"content" validate:"max=50000"`
	FileURLs []string `json:"file_urls" validate:"max=10,dive,url"`
}

type GradeSubmissionRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback" validate:"max=5000"`
}

// Exam DTOs

type CreateExamRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=200"`
	Description     string `json:"description" validate:"max=5000"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	PassingScore    int    `json:"passing_score" validate:"gte=0"`
}

type QuestionOptionRequest struct {
	Key  string `json:"key" validate:"required,option_key"`
	Text string `json:"text" validate:"required,max=2000"`
}

type AddQuestionRequest struct {
	Content       string                  `json:"content" validate:"required,min=1,max=5000"`
	Type          string                  `json:"type" validate:"required,question_type"`
	Options       []QuestionOptionRequest `json:"options" validate:"required,min=2,max=10,dive"`
	CorrectOption string                  `json:"correct_option" validate:"required,option_key"`
	Points        *int                    `json:"points" validate:"omitempty,gte=0"`
}

type AttemptAnswerRequest struct {
	QuestionID  string `json:"question_id" validate:"required,uuid"`
	SelectedKey string `json:"selected_key" validate:"required,option_key"`
}

// Answers may be empty; unanswered questions simply score zero.
type SubmitAttemptRequest struct {
	Answers []AttemptAnswerRequest `json:"answers" validate:"dive"`
}

// Attendance DTOs

type CreateAttendanceSessionRequest struct {
	DurationMinutes int   `json:"duration_minutes" validate:"required,gt=0"`
	AutoMarkAbsent  *bool `json:"auto_mark_absent"`
}

type CheckInRequest struct {
	LocationData map[string]any `json:"location_data"`
}

// Institute DTOs

type CreateInstituteRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

type AddInstituteMemberRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Role          string `json:"role" validate:"omitempty,institute_role"`
	StudentIDCode string `json:"student_id_code" validate:"max=64"`
}

type UpdateInstituteMemberRequest struct {
	Role          *string `json:"role" validate:"omitempty,institute_role"`
	StudentIDCode *string `json:"student_id_code" validate:"omitempty,max=64"`
}

package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionRequired    ErrCode = "SESSION_REQUIRED"
	ErrEmailExists        ErrCode = "EMAIL_EXISTS"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrNotOwner          ErrCode = "NOT_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Subjects & enrollment ─────────────────────────────────────────
	ErrSubjectCodeExists ErrCode = "SUBJECT_CODE_EXISTS"
	ErrAlreadyEnrolled   ErrCode = "ALREADY_ENROLLED"
	ErrNotEnrolled       ErrCode = "NOT_ENROLLED"

	// ─── Submissions ───────────────────────────────────────────────────
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"
	ErrDeadlinePassed   ErrCode = "DEADLINE_PASSED"
	ErrEmptySubmission  ErrCode = "EMPTY_SUBMISSION"
	ErrPointsExceedMax  ErrCode = "POINTS_EXCEED_MAX"

	// ─── Uploads ───────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrInvalidFileName ErrCode = "INVALID_FILE_NAME"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionRequired:
		return "You must be signed in to access this resource."
	case ErrEmailExists:
		return "An account with this email already exists."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrTeacherAccessOnly:
		return "Only teachers may perform this action."
	case ErrStudentAccessOnly:
		return "Only students may perform this action."
	case ErrNotOwner:
		return "Only the owning teacher may modify this resource."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."

	case ErrSubjectCodeExists:
		return "Subject code already exists."
	case ErrAlreadyEnrolled:
		return "Already enrolled in this subject."
	case ErrNotEnrolled:
		return "Not enrolled in this subject."

	case ErrAlreadySubmitted:
		return "You have already submitted this task."
	case ErrDeadlinePassed:
		return "Task submission deadline has passed."
	case ErrEmptySubmission:
		return "A submission needs content or at least one file."
	case ErrPointsExceedMax:
		return "Points cannot exceed the task maximum."

	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "File type is not allowed."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrInvalidFileName:
		return "Attachment file name is not valid."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

package models

// Stable machine-readable rejection codes. Clients switch on Code; Error
// is the human-readable companion.
const (
	CodePortalClosed        = "PORTAL_CLOSED"
	CodePortalOpen          = "PORTAL_OPEN"
	CodeInvalidCredential   = "INVALID_CREDENTIAL"
	CodeAlreadyVoted        = "ALREADY_VOTED"
	CodeMissingPosition     = "MISSING_POSITION"
	CodeDuplicatePosition   = "DUPLICATE_POSITION"
	CodeInvalidCandidate    = "INVALID_CANDIDATE"
	CodeIneligibleCandidate = "INELIGIBLE_CANDIDATE"
	CodeDuplicateVoter      = "DUPLICATE_VOTER"
	CodeDuplicateCandidate  = "DUPLICATE_CANDIDATE"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func NewError(code, message string) *ErrorResponse {
	return &ErrorResponse{Code: code, Error: message}
}

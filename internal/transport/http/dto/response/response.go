package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrWeddingNotFound = ErrorResponse{
		Status:  "error",
		Error:   "wedding_not_found",
		Details: "Wedding does not exist or is not yours",
	}

	ErrTaskNotFound = ErrorResponse{
		Status:  "error",
		Error:   "task_not_found",
		Details: "Task does not exist or is not yours",
	}

	ErrDeleteNotConfirmed = ErrorResponse{
		Status:  "error",
		Error:   "delete_not_confirmed",
		Details: "Deleting a wedding plan requires confirm=true",
	}
)

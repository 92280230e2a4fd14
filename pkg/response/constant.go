package response

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	ErrorCodeValidation     = 1
	ErrorCodeRateLimited    = 429
	InternalServerErrorCode = 500
)

package errorx

type Code int

var Unknown = Error{Code: Internal, Message: "Request failed"}

const (
	// Common codes
	BadRequest      Code = 100001
	BadResponse     Code = 100002
	Unauthorized    Code = 100003
	NotFound        Code = 100004
	Unauthenticated Code = 100005
	InvalidState    Code = 100006
	Internal        Code = 100007

	// Auction codes
	AlreadyOpen        Code = 200001
	NotExpired         Code = 200002
	InsufficientAmount Code = 200003

	// Claim codes
	NothingToClaim Code = 300001
	DuplicateProof Code = 300002

	// Lottery codes
	AlreadyAssigned Code = 400001
)

package lerror

import "net/http"

type LCode int

const (
	MissingConfig      LCode = 4000
	InvalidResponse    LCode = 4001
	NetworkFailure     LCode = 5020
	TxReverted         LCode = 5100
	VerificationFailed LCode = 5200
	InternalServer     LCode = 5000
)

var errorMap = map[LCode]*XError{
	MissingConfig: {
		Status:  http.StatusBadRequest,
		Message: "Missing configuration",
	},
	InvalidResponse: {
		Status:  http.StatusBadGateway,
		Message: "Unexpected response shape",
	},
	NetworkFailure: {
		Status:  http.StatusBadGateway,
		Message: "Network failure",
	},
	TxReverted: {
		Status:  http.StatusUnprocessableEntity,
		Message: "Transaction reverted",
	},
	VerificationFailed: {
		Status:  http.StatusBadGateway,
		Message: "Contract verification failed",
	},
	InternalServer: {
		Status:  http.StatusInternalServerError,
		Message: "Internal Server",
	},
}

func (c LCode) ToInt() int {
	return int(c)
}

func (c LCode) ToError(message ...string) *XError {
	r, ok := errorMap[c]
	if !ok {
		r = errorMap[InternalServer]
	}
	err := &XError{
		Status:  r.Status,
		Code:    c.ToInt(),
		Message: r.Message,
	}
	if len(message) != 0 {
		err.Message = message[0]
	}
	return err
}

package server

import (
	"github.com/gravitational/trace"

	"github.com/obelisk/rustica/api/rusticapb"
)

// ErrorCode values are returned inline in CertificateResponse and
// AttestedX509CertificateResponse bodies. Clients depend on the numbering
// staying stable so issuance-policy failures can be told apart from
// transport failures.
type ErrorCode int64

const (
	CodeSuccess            ErrorCode = 0
	CodeTimeExpired        ErrorCode = 1
	CodeBadChallenge       ErrorCode = 2
	CodeInvalidKey         ErrorCode = 3
	CodeUnsupportedKeyType ErrorCode = 4
	CodeBadCertOptions     ErrorCode = 5
	CodeNotAuthorized      ErrorCode = 6
	CodeBadRequest         ErrorCode = 7
	CodeUnknown            ErrorCode = 9001
)

func (c ErrorCode) String() string {
	switch c {
	case CodeSuccess:
		return "Success"
	case CodeTimeExpired:
		return "TimeExpired"
	case CodeBadChallenge:
		return "BadChallenge"
	case CodeInvalidKey:
		return "InvalidKey"
	case CodeUnsupportedKeyType:
		return "UnsupportedKeyType"
	case CodeBadCertOptions:
		return "BadCertOptions"
	case CodeNotAuthorized:
		return "NotAuthorized"
	case CodeBadRequest:
		return "BadRequest"
	default:
		return "Unknown"
	}
}

// codedError ties an ErrorCode to a trace error so the validation pipeline
// can bubble a single error value that both logs well and maps onto the wire
// taxonomy.
type codedError struct {
	error
	code ErrorCode
}

func withCode(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{error: err, code: code}
}

// errorCode maps an error from the validation or authorization pipeline to
// its wire taxonomy value. Authorizer errors arrive as plain trace types.
func errorCode(err error) ErrorCode {
	if err == nil {
		return CodeSuccess
	}
	var coded *codedError
	if ok := asCodedError(err, &coded); ok {
		return coded.code
	}
	switch {
	case trace.IsAccessDenied(err):
		return CodeNotAuthorized
	case trace.IsBadParameter(err):
		return CodeBadCertOptions
	case trace.IsNotFound(err):
		return CodeNotAuthorized
	}
	return CodeUnknown
}

func asCodedError(err error, target **codedError) bool {
	for err != nil {
		if coded, ok := err.(*codedError); ok {
			*target = coded
			return true
		}
		unwrapper, ok := err.(interface{ OrigError() error })
		if !ok {
			return false
		}
		// Leaf trace errors (e.g. *trace.AccessDeniedError) return
		// themselves from OrigError; stop rather than loop forever.
		next := unwrapper.OrigError()
		if next == err {
			return false
		}
		err = next
	}
	return false
}

func certificateErrorResponse(err error) *rusticapb.CertificateResponse {
	code := errorCode(err)
	return &rusticapb.CertificateResponse{
		Error:     code.String(),
		ErrorCode: int64(code),
	}
}

func x509ErrorResponse(err error) *rusticapb.AttestedX509CertificateResponse {
	code := errorCode(err)
	return &rusticapb.AttestedX509CertificateResponse{
		Error:     code.String(),
		ErrorCode: int64(code),
	}
}

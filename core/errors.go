package core

import (
	"errors"
	"fmt"
)

type ErrorKind uint8

const (
	ErrorKindInternal ErrorKind = iota
	ErrorKindValidation
	ErrorKindNotFound
	ErrorKindUnsupportedAsset
	ErrorKindChain
	ErrorKindOracle
	ErrorKindGeneration
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "validation"
	case ErrorKindNotFound:
		return "not_found"
	case ErrorKindUnsupportedAsset:
		return "unsupported_asset"
	case ErrorKindChain:
		return "chain"
	case ErrorKindOracle:
		return "oracle"
	case ErrorKindGeneration:
		return "generation"
	default:
		return "internal"
	}
}

type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ErrorKindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func ValidationError(format string, args ...any) error {
	return &Error{Kind: ErrorKindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...any) error {
	return &Error{Kind: ErrorKindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func UnsupportedAssetError(asset string) error {
	return &Error{Kind: ErrorKindUnsupportedAsset, Msg: fmt.Sprintf("asset %s is not supported for on-chain transfer", asset)}
}

func ChainError(err error, format string, args ...any) error {
	return &Error{Kind: ErrorKindChain, Msg: fmt.Sprintf(format, args...), Err: err}
}

func OracleError(err error, symbol string) error {
	return &Error{Kind: ErrorKindOracle, Msg: fmt.Sprintf("price lookup for %s failed", symbol), Err: err}
}

func GenerationError(err error) error {
	return &Error{Kind: ErrorKindGeneration, Msg: "generate keypair failed", Err: err}
}

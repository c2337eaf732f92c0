package lib

import (
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code, and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeInvalidAddress    ErrorCode = 1
	CodeJSONMarshal       ErrorCode = 2
	CodeJSONUnmarshal     ErrorCode = 3
	CodeWriteFile         ErrorCode = 4
	CodeReadFile          ErrorCode = 5
	CodeInvalidArgument   ErrorCode = 6
	CodeUnknownPageable   ErrorCode = 7
	CodeInvalidLogLevel   ErrorCode = 8
	CodeInvalidDataDir    ErrorCode = 9
	CodeInvalidAmountText ErrorCode = 10

	// Math Module
	MathModule ErrorModule = "math"

	// Math Module Error Codes
	CodeDivideByZero   ErrorCode = 1
	CodeAmountOverflow ErrorCode = 2
	CodeNegativeResult ErrorCode = 3

	// Pool Module
	PoolModule ErrorModule = "pool"

	// Pool Module Error Codes
	CodeInvalidAmountBound    ErrorCode = 1
	CodeInvalidFeeBound       ErrorCode = 2
	CodeWithdrawalExceedsBase ErrorCode = 3
	CodeInsufficientFunds     ErrorCode = 4
	CodeInvalidParams         ErrorCode = 5
	CodeWithdrawalNotFound    ErrorCode = 6
	CodeWithdrawalLocked      ErrorCode = 7
	CodeEmptyPool             ErrorCode = 8
	CodeInvalidDeposit        ErrorCode = 9
	CodeInvalidWithdrawal     ErrorCode = 10
	CodeUnknownParam          ErrorCode = 11
	CodeWrongStoreType        ErrorCode = 12

	// Store Module
	StoreModule ErrorModule = "store"

	// Store Module Error Codes
	CodeOpenDB       ErrorCode = 1
	CodeCloseDB      ErrorCode = 2
	CodeCommitDB     ErrorCode = 3
	CodeStoreSet     ErrorCode = 4
	CodeStoreGet     ErrorCode = 5
	CodeStoreDelete  ErrorCode = 6
	CodeStoreIter    ErrorCode = 7
	CodeInvalidKey   ErrorCode = 8
	CodeMaxVersion   ErrorCode = 9
	CodeUnknownStore ErrorCode = 10

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeRPCUnmarshal     ErrorCode = 1
	CodeRPCTimeout       ErrorCode = 2
	CodeRPCPostRequest   ErrorCode = 3
	CodeRPCGetRequest    ErrorCode = 4
	CodeRPCHttp          ErrorCode = 5
	CodeRPCDecodeAddress ErrorCode = 6
	CodeRPCServerClosed  ErrorCode = 7
	CodeRPCResourceUsage ErrorCode = 8
)

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.Marshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.Unmarshal() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument() ErrorI {
	return NewError(CodeInvalidArgument, MainModule, "the argument is invalid")
}

func ErrInvalidAddress() ErrorI {
	return NewError(CodeInvalidAddress, MainModule, "address is invalid")
}

func ErrUnknownPageable(s string) ErrorI {
	return NewError(CodeUnknownPageable, MainModule, fmt.Sprintf("pageable %s is unknown", s))
}

func ErrInvalidLogLevel(s string) ErrorI {
	return NewError(CodeInvalidLogLevel, MainModule, fmt.Sprintf("log level %s is invalid", s))
}

func ErrInvalidDataDir(err error) ErrorI {
	return NewError(CodeInvalidDataDir, MainModule, fmt.Sprintf("unable to initialize data directory with err: %s", err.Error()))
}

func ErrInvalidAmountText(s string) ErrorI {
	return NewError(CodeInvalidAmountText, MainModule, fmt.Sprintf("unable to parse amount from %s", s))
}

func ErrDivideByZero() ErrorI {
	return NewError(CodeDivideByZero, MathModule, "divide by zero")
}

func ErrAmountOverflow() ErrorI {
	return NewError(CodeAmountOverflow, MathModule, "amount overflows 256 bits")
}

func ErrNegativeResult() ErrorI {
	return NewError(CodeNegativeResult, MathModule, "result is negative")
}

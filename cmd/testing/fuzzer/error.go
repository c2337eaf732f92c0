package main

import (
	"fmt"

	"github.com/JudioLam9/contracts-v3/lib"
)

const (
	CodeExpectedInvalidOperation = 1
)

func ErrExpectedInvalid(opType, reason string) lib.ErrorI {
	return lib.NewError(CodeExpectedInvalidOperation, lib.MainModule, fmt.Sprintf("expected invalid %s operation due to %s but got no error", opType, reason))
}

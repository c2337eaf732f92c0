package pool

import (
	"fmt"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/ethereum/go-ethereum/common"
)

func ErrInvalidAmountBound(field string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAmountBound, lib.PoolModule, fmt.Sprintf("amount %s exceeds 128 bits", field))
}

func ErrInvalidFeeBound(field string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidFeeBound, lib.PoolModule, fmt.Sprintf("fraction %s exceeds one million ppm", field))
}

func ErrWithdrawalExceedsBase() lib.ErrorI {
	return lib.NewError(lib.CodeWithdrawalExceedsBase, lib.PoolModule, "withdrawal amount exceeds the vault balance")
}

func ErrInsufficientFunds(token common.Address) lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientFunds, lib.PoolModule, fmt.Sprintf("insufficient funds for token %s", token.Hex()))
}

func ErrInvalidParams(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidParams, lib.PoolModule, fmt.Sprintf("params are invalid: %s", reason))
}

func ErrWithdrawalNotFound(id uint64) lib.ErrorI {
	return lib.NewError(lib.CodeWithdrawalNotFound, lib.PoolModule, fmt.Sprintf("withdrawal request %d is not found", id))
}

func ErrWithdrawalLocked(id, unlockTime uint64) lib.ErrorI {
	return lib.NewError(lib.CodeWithdrawalLocked, lib.PoolModule, fmt.Sprintf("withdrawal request %d is locked until unix second %d", id, unlockTime))
}

func ErrEmptyPool(token common.Address) lib.ErrorI {
	return lib.NewError(lib.CodeEmptyPool, lib.PoolModule, fmt.Sprintf("pool for token %s has no supply", token.Hex()))
}

func ErrInvalidDeposit() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidDeposit, lib.PoolModule, "deposit amount must be positive")
}

func ErrInvalidWithdrawal() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidWithdrawal, lib.PoolModule, "withdrawal amount must be positive")
}

func ErrUnknownParam(name string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownParam, lib.PoolModule, fmt.Sprintf("param %s is unknown", name))
}

func ErrWrongStoreType() lib.ErrorI {
	return lib.NewError(lib.CodeWrongStoreType, lib.PoolModule, "the store is not writable")
}

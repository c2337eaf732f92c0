package pool

import (
	"encoding/binary"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/ethereum/go-ethereum/common"
)

/* key.go contains the prefix key logic for the underlying store */

var (
	poolPrefix       = []byte{1} // store key prefix for per token pool records
	vaultPrefix      = []byte{2} // store key prefix for per token vault balances
	protectionPrefix = []byte{3} // store key prefix for per token protection wallet balances
	withdrawalPrefix = []byte{4} // store key prefix for pending withdrawal requests
	paramsPrefix     = []byte{5} // store key prefix for governance parameters
	lastRequestIdKey = []byte{6} // store key for the last assigned withdrawal request id
	accountPrefix    = []byte{7} // store key prefix for provider pool token accounts
)

/*
- Prefixes group the record families in the schemaless key value database

- Length prefixed append separates the segments of a key unambiguously

- BigEndian encoding of uint64 ids preserves numeric order under the database's lexicographical sorting
*/
func PoolPrefix() []byte       { return lib.JoinLenPrefix(poolPrefix) }
func VaultPrefix() []byte      { return lib.JoinLenPrefix(vaultPrefix) }
func ProtectionPrefix() []byte { return lib.JoinLenPrefix(protectionPrefix) }
func WithdrawalPrefix() []byte { return lib.JoinLenPrefix(withdrawalPrefix) }
func KeyForPool(token common.Address) []byte {
	return lib.JoinLenPrefix(poolPrefix, token.Bytes())
}
func KeyForVault(token common.Address) []byte {
	return lib.JoinLenPrefix(vaultPrefix, token.Bytes())
}
func KeyForProtection(token common.Address) []byte {
	return lib.JoinLenPrefix(protectionPrefix, token.Bytes())
}
func KeyForWithdrawal(id uint64) []byte {
	return lib.JoinLenPrefix(withdrawalPrefix, lib.FormatUint64(id))
}
func KeyForParams() []byte        { return lib.JoinLenPrefix(paramsPrefix) }
func KeyForLastRequestId() []byte { return lib.JoinLenPrefix(lastRequestIdKey) }
func AccountPrefix() []byte       { return lib.JoinLenPrefix(accountPrefix) }
func KeyForAccount(provider, token common.Address) []byte {
	return lib.JoinLenPrefix(accountPrefix, provider.Bytes(), token.Bytes())
}

// IdFromKey() extracts the withdrawal request id from its store key
func IdFromKey(k []byte) (uint64, lib.ErrorI) {
	segments := lib.DecodeLengthPrefixed(k)
	if len(segments) != 2 || len(segments[1]) != 8 {
		return 0, ErrInvalidWithdrawal()
	}
	return binary.BigEndian.Uint64(segments[1]), nil
}

// AddressFromKey() extracts the token address from a pool family store key
func AddressFromKey(k []byte) (common.Address, lib.ErrorI) {
	segments := lib.DecodeLengthPrefixed(k)
	if len(segments) != 2 || len(segments[1]) != common.AddressLength {
		return common.Address{}, lib.ErrInvalidAddress()
	}
	return common.BytesToAddress(segments[1]), nil
}

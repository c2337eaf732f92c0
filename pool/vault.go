package pool

import (
	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

/*
	vault.go tracks the two custody balances per base token: the vault the pool actually
	settles from, and the external protection wallet that backstops deficits. Both are
	plain unsigned balances under their own key prefixes, stored as big endian bytes.

	The vault balance is deliberately independent of the pool's staked accounting: direct
	vault funding without a matching stake is exactly what produces the deficit regimes.
*/

// GetVaultBalance() returns the vault balance for a token
func (s *StateMachine) GetVaultBalance(token common.Address) (*uint256.Int, lib.ErrorI) {
	return s.getBalance(KeyForVault(token))
}

// VaultAdd() credits base tokens to the vault
func (s *StateMachine) VaultAdd(token common.Address, amount *uint256.Int) lib.ErrorI {
	return s.addToBalance(KeyForVault(token), token, amount)
}

// VaultSub() debits base tokens from the vault, balance checked
func (s *StateMachine) VaultSub(token common.Address, amount *uint256.Int) lib.ErrorI {
	return s.subFromBalance(KeyForVault(token), token, amount)
}

// GetProtectionBalance() returns the protection wallet balance for a token
func (s *StateMachine) GetProtectionBalance(token common.Address) (*uint256.Int, lib.ErrorI) {
	return s.getBalance(KeyForProtection(token))
}

// ProtectionAdd() credits base tokens to the protection wallet
func (s *StateMachine) ProtectionAdd(token common.Address, amount *uint256.Int) lib.ErrorI {
	return s.addToBalance(KeyForProtection(token), token, amount)
}

// ProtectionSub() debits base tokens from the protection wallet, balance checked
func (s *StateMachine) ProtectionSub(token common.Address, amount *uint256.Int) lib.ErrorI {
	return s.subFromBalance(KeyForProtection(token), token, amount)
}

// getBalance() reads an unsigned balance, zero when the key is absent
func (s *StateMachine) getBalance(key []byte) (*uint256.Int, lib.ErrorI) {
	bz, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(bz), nil
}

// setBalance() writes an unsigned balance, removing zero balances
func (s *StateMachine) setBalance(key []byte, balance *uint256.Int) lib.ErrorI {
	if balance.IsZero() {
		return s.Delete(key)
	}
	return s.Set(key, balance.Bytes())
}

// addToBalance() credits an unsigned balance under the 128 bit amount bound
func (s *StateMachine) addToBalance(key []byte, token common.Address, amount *uint256.Int) lib.ErrorI {
	balance, err := s.getBalance(key)
	if err != nil {
		return err
	}
	balance = new(uint256.Int).Add(balance, amount)
	// balances feed the settlement engine and share its input bound
	if balance.Gt(lib.MaxUint128) {
		return ErrInvalidAmountBound(token.Hex())
	}
	return s.setBalance(key, balance)
}

// subFromBalance() debits an unsigned balance, balance checked
func (s *StateMachine) subFromBalance(key []byte, token common.Address, amount *uint256.Int) lib.ErrorI {
	balance, err := s.getBalance(key)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return ErrInsufficientFunds(token)
	}
	return s.setBalance(key, new(uint256.Int).Sub(balance, amount))
}

package main

import (
	"math/rand"

	"github.com/JudioLam9/contracts-v3/lib"
)

// DepositOperation() deposits a random amount, occasionally an intentionally invalid one
func (f *Fuzzer) DepositOperation() lib.ErrorI {
	token, provider := f.getRandomToken(), f.getRandomProvider()
	if i := rand.Intn(100); i >= f.config.PercentInvalidOperations {
		return f.validDeposit(token, provider)
	}
	var err lib.ErrorI
	var reason string
	switch rand.Intn(3) {
	case 0: // invalid token address
		_, err = f.client.Deposit(badAddress, provider, f.getRandomAmount().Dec())
		reason = BadTokenReason
	case 1: // invalid provider address
		_, err = f.client.Deposit(token, badAddress, f.getRandomAmount().Dec())
		reason = BadProviderReason
	case 2: // zero amount
		_, err = f.client.Deposit(token, provider, "0")
		reason = BadAmountReason
	}
	if err == nil {
		return ErrExpectedInvalid(DepositOpName, reason)
	}
	f.log.Warnf("Executed invalid %s operation: %s: %s", DepositOpName, reason, err.Error())
	return nil
}

func (f *Fuzzer) validDeposit(token, provider string) lib.ErrorI {
	amount := f.getRandomAmount()
	resp, err := f.client.Deposit(token, provider, amount.Dec())
	if err != nil {
		return err
	}
	minted, err := lib.StringToUint256(resp.Minted)
	if err != nil {
		return err
	}
	f.state.AddBalance(provider, token, minted)
	f.log.Infof("Executed valid deposit of %s into pool %s minting %s", amount.Dec(), token, resp.Minted)
	return nil
}

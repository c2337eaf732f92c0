package main

import (
	"math/rand"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/holiman/uint256"
)

// InitWithdrawalOperation() escrows part of a random provider's pool tokens
func (f *Fuzzer) InitWithdrawalOperation() lib.ErrorI {
	token, provider := f.getRandomToken(), f.getRandomProvider()
	balance := f.getBalance(provider, token)
	if balance.IsZero() {
		return nil
	}
	if i := rand.Intn(100); i >= f.config.PercentInvalidOperations {
		return f.validInitWithdrawal(token, provider, balance)
	}
	var err lib.ErrorI
	var reason string
	switch rand.Intn(3) {
	case 0: // more than the account holds
		amount := new(uint256.Int).Add(balance, uint256.NewInt(1))
		_, err = f.client.InitWithdrawal(token, provider, amount.Dec(), "")
		reason = ExceedsReason
	case 1: // zero amount
		_, err = f.client.InitWithdrawal(token, provider, "0", "")
		reason = BadAmountReason
	case 2: // invalid token address
		_, err = f.client.InitWithdrawal(badAddress, provider, balance.Dec(), "")
		reason = BadTokenReason
	}
	if err == nil {
		return ErrExpectedInvalid(InitOpName, reason)
	}
	f.log.Warnf("Executed invalid %s operation: %s: %s", InitOpName, reason, err.Error())
	return nil
}

func (f *Fuzzer) validInitWithdrawal(token, provider string, balance *uint256.Int) lib.ErrorI {
	amount := f.getRandomAmountUpTo(balance)
	if amount.IsZero() {
		return nil
	}
	resp, err := f.client.InitWithdrawal(token, provider, amount.Dec(), "")
	if err != nil {
		return err
	}
	f.state.SubBalance(provider, token, amount)
	f.state.SetWithdrawal(resp.Request)
	f.log.Infof("Executed valid init-withdrawal %d escrowing %s pool tokens", resp.Request.Id, amount.Dec())
	return nil
}

// CancelWithdrawalOperation() returns the escrow of a random open request
func (f *Fuzzer) CancelWithdrawalOperation() lib.ErrorI {
	if i := rand.Intn(100); i < f.config.PercentInvalidOperations {
		// id zero is never assigned
		_, err := f.client.CancelWithdrawal(0)
		if err == nil {
			return ErrExpectedInvalid(CancelOpName, UnknownIdReason)
		}
		f.log.Warnf("Executed invalid %s operation: %s: %s", CancelOpName, UnknownIdReason, err.Error())
		return nil
	}
	request, ok := f.state.RandomWithdrawal()
	if !ok {
		return nil
	}
	// drop the id either way, the reset loop repairs a stale mirror
	f.state.DeleteWithdrawal(request.Id)
	if _, err := f.client.CancelWithdrawal(request.Id); err != nil {
		return err
	}
	f.state.AddBalance(request.Provider.Hex(), request.Token.Hex(), request.PoolTokenAmount)
	f.log.Infof("Executed valid cancel-withdrawal %d", request.Id)
	return nil
}

// ProcessWithdrawalOperation() settles a random open request
func (f *Fuzzer) ProcessWithdrawalOperation() lib.ErrorI {
	if i := rand.Intn(100); i < f.config.PercentInvalidOperations {
		// id zero is never assigned
		_, err := f.client.ProcessWithdrawal(0)
		if err == nil {
			return ErrExpectedInvalid(ProcessOpName, UnknownIdReason)
		}
		f.log.Warnf("Executed invalid %s operation: %s: %s", ProcessOpName, UnknownIdReason, err.Error())
		return nil
	}
	request, ok := f.state.RandomWithdrawal()
	if !ok {
		return nil
	}
	// drop the id either way, the reset loop repairs a stale mirror
	f.state.DeleteWithdrawal(request.Id)
	resp, err := f.client.ProcessWithdrawal(request.Id)
	if err != nil {
		return err
	}
	f.log.Infof("Executed valid process-withdrawal %d under %s transferring %s base tokens", request.Id, resp.Amounts.Regime, resp.Amounts.S.Dec())
	return nil
}

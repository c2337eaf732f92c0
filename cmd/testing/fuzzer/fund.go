package main

import (
	"math/rand"

	"github.com/JudioLam9/contracts-v3/cmd/rpc"
	"github.com/JudioLam9/contracts-v3/lib"
)

// FundOperation() credits the vault or the protection wallet for a random token
func (f *Fuzzer) FundOperation() lib.ErrorI {
	token, amount := f.getRandomToken(), f.getRandomAmount()
	if i := rand.Intn(100); i < f.config.PercentInvalidOperations {
		var err lib.ErrorI
		if rand.Intn(2) == 0 {
			_, err = f.client.FundVault(badAddress, amount.Dec())
		} else {
			_, err = f.client.FundProtection(badAddress, amount.Dec())
		}
		if err == nil {
			return ErrExpectedInvalid(FundOpName, BadTokenReason)
		}
		f.log.Warnf("Executed invalid %s operation: %s: %s", FundOpName, BadTokenReason, err.Error())
		return nil
	}
	var resp *rpc.FundResponse
	var err lib.ErrorI
	if rand.Intn(2) == 0 {
		resp, err = f.client.FundVault(token, amount.Dec())
	} else {
		resp, err = f.client.FundProtection(token, amount.Dec())
	}
	if err != nil {
		return err
	}
	f.log.Infof("Executed valid fund of %s for token %s, balance now %s", amount.Dec(), token, resp.Balance)
	return nil
}

package pool

import (
	"testing"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func newTestStateMachine(t *testing.T) *StateMachine {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(lib.Config{MainConfig: lib.DefaultMainConfig()}, db, log)
}

func newTestAddress(variation byte) common.Address {
	return common.BytesToAddress([]byte{variation})
}

func TestParamsDefaults(t *testing.T) {
	sm := newTestStateMachine(t)
	// a fresh state serves the default params
	params, err := sm.GetParams()
	require.NoError(t, err)
	require.Equal(t, DefaultParams(), params)
}

func TestSetParams(t *testing.T) {
	sm := newTestStateMachine(t)
	expected := &Params{
		WithdrawalFeePPM:      5_000,
		DeviationThresholdPPM: 20_000,
		WithdrawalLockSeconds: 3_600,
	}
	require.NoError(t, sm.SetParams(expected))
	got, err := sm.GetParams()
	require.NoError(t, err)
	require.Equal(t, expected, got)
	// params beyond the ppm resolution are rejected
	err = sm.SetParams(&Params{WithdrawalFeePPM: PPMResolution + 1})
	require.ErrorContains(t, err, "params are invalid")
}

func TestUpdateParam(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		param  string
		value  uint64
		error  string
	}{
		{
			name:   "withdrawal fee",
			detail: "the withdrawal fee updates in place",
			param:  ParamWithdrawalFee,
			value:  10_000,
		},
		{
			name:   "deviation threshold",
			detail: "the deviation threshold updates in place",
			param:  ParamDeviationThreshold,
			value:  5_000,
		},
		{
			name:   "withdrawal lock",
			detail: "the withdrawal lock updates in place",
			param:  ParamWithdrawalLock,
			value:  60,
		},
		{
			name:   "unknown param",
			detail: "an unknown param name is rejected",
			param:  "bogus",
			value:  1,
			error:  "is unknown",
		},
		{
			name:   "fee beyond resolution",
			detail: "a fee above one million ppm is rejected",
			param:  ParamWithdrawalFee,
			value:  PPMResolution + 1,
			error:  "params are invalid",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm := newTestStateMachine(t)
			// execute the function call
			err := sm.UpdateParam(test.param, test.value)
			// validate the expected error
			require.Equal(t, test.error != "", err != nil, err)
			if err != nil {
				require.ErrorContains(t, err, test.error)
				return
			}
			// validate the update landed
			params, err := sm.GetParams()
			require.NoError(t, err)
			switch test.param {
			case ParamWithdrawalFee:
				require.Equal(t, test.value, params.WithdrawalFeePPM)
			case ParamDeviationThreshold:
				require.Equal(t, test.value, params.DeviationThresholdPPM)
			case ParamWithdrawalLock:
				require.Equal(t, test.value, params.WithdrawalLockSeconds)
			}
		})
	}
}

func TestReadOnlyStateRejectsWrites(t *testing.T) {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	defer db.Close()
	sm := New(lib.Config{MainConfig: lib.DefaultMainConfig()}, db, log)
	// commit a params write at version 1
	require.NoError(t, sm.SetParams(DefaultParams()))
	_, err = db.Commit()
	require.NoError(t, err)
	// a read view at version 1 serves reads
	ro, err := db.NewReadOnly(1)
	require.NoError(t, err)
	defer ro.Discard()
	roState := NewReadOnly(lib.Config{MainConfig: lib.DefaultMainConfig()}, ro, ro.Version(), log)
	require.EqualValues(t, 1, roState.Version())
	params, err := roState.GetParams()
	require.NoError(t, err)
	require.Equal(t, DefaultParams(), params)
	// the read view rejects writes
	err = roState.SetParams(DefaultParams())
	require.ErrorContains(t, err, "not writable")
	err = roState.Delete(KeyForParams())
	require.ErrorContains(t, err, "not writable")
}

func TestHistoricalStateView(t *testing.T) {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	defer db.Close()
	sm := New(lib.Config{MainConfig: lib.DefaultMainConfig()}, db, log)
	alice, token := newTestAddress(1), newTestAddress(0xaa)
	// version 1 holds the initial deposit
	_, err = sm.Deposit(alice, token, uint256.NewInt(1_000))
	require.NoError(t, err)
	_, err = db.Commit()
	require.NoError(t, err)
	// version 2 holds a second deposit
	_, err = sm.Deposit(alice, token, uint256.NewInt(500))
	require.NoError(t, err)
	_, err = db.Commit()
	require.NoError(t, err)
	// the view at version 1 reads the original supply
	ro, err := db.NewReadOnly(1)
	require.NoError(t, err)
	defer ro.Discard()
	roState := NewReadOnly(lib.Config{MainConfig: lib.DefaultMainConfig()}, ro, ro.Version(), log)
	pool, err := roState.GetPool(token)
	require.NoError(t, err)
	require.Equal(t, "1000", pool.PoolTokenSupply.Dec())
	// the live state reads the combined supply
	pool, err = sm.GetPool(token)
	require.NoError(t, err)
	require.Equal(t, "1500", pool.PoolTokenSupply.Dec())
}

/*
SPDX-License-Identifier: Apache-2.0
*/

package token_test

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/mocks"
	"github.com/marcelmiro/astrano-contracts/token"
)

//go:generate counterfeiter -o ../mocks/transactioncontext.go -fake-name TransactionContext . transactionContext
type transactionContext interface {
	kalpsdk.TransactionContextInterface
}

//go:generate counterfeiter -o ../mocks/statequeryiterator.go -fake-name StateQueryIterator . stateQueryIterator
type stateQueryIterator interface {
	kalpsdk.StateQueryIteratorInterface
}

//go:generate counterfeiter -o ../mocks/clientidentity.go -fake-name ClientIdentity . clientIdentity
type clientIdentity interface {
	cid.ClientIdentity
}

const (
	alice = "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0"
	bob   = "b1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d1"
	carol = "c1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d2"
)

func newTransactionContext() (*mocks.TransactionContext, map[string][]byte) {
	worldState := map[string][]byte{}
	ctx := &mocks.TransactionContext{}

	ctx.GetStateStub = func(key string) ([]byte, error) {
		data, found := worldState[key]
		if found {
			return data, nil
		}
		return nil, nil
	}
	ctx.PutStateWithoutKYCStub = func(key string, value []byte) error {
		worldState[key] = value
		return nil
	}
	ctx.DelStateWithoutKYCStub = func(key string) error {
		delete(worldState, key)
		return nil
	}
	ctx.GetTxIDStub = func() string {
		const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
		result := make([]byte, 10)
		for i := range result {
			result[i] = charset[rand.Intn(len(charset))]
		}
		return string(result)
	}
	ctx.GetTxTimestampReturns(&timestamp.Timestamp{Seconds: 1000000}, nil)

	return ctx, worldState
}

func setUserID(ctx *mocks.TransactionContext, userID string) {
	completeID := fmt.Sprintf("x509::CN=%s,O=Organization,L=City,ST=State,C=Country", userID)
	b64ID := base64.StdEncoding.EncodeToString([]byte(completeID))

	clientIdentity := &mocks.ClientIdentity{}
	clientIdentity.GetIDReturns(b64ID, nil)
	ctx.GetClientIdentityReturns(clientIdentity)
}

func TestCreate(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	address, err := token.Create(ctx, "Astrano", "ASTR", "1000", alice)
	require.NoError(t, err)
	require.Regexp(t, `^[0-9a-f]{40}$`, address)

	tok, err := token.GetToken(ctx, address)
	require.NoError(t, err)
	require.Equal(t, "Astrano", tok.Name)
	require.Equal(t, "ASTR", tok.Symbol)
	require.Equal(t, "1000", tok.TotalSupply)

	balance, err := token.BalanceOf(ctx, address, alice)
	require.NoError(t, err)
	require.Equal(t, "1000", balance.String())
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	_, err := token.Create(ctx, "", "ASTR", "1000", alice)
	require.ErrorContains(t, err, "name is empty")

	_, err = token.Create(ctx, "Astrano", "", "1000", alice)
	require.ErrorContains(t, err, "symbol is empty")

	_, err = token.Create(ctx, "Astrano", "ASTR", "1000", token.ZeroAddress)
	require.ErrorContains(t, err, "initial holder is the zero address")

	_, err = token.Create(ctx, "Astrano", "ASTR", "0", alice)
	require.ErrorContains(t, err, "total supply is 0")

	_, err = token.Create(ctx, "Astrano", "ASTR", "many", alice)
	require.Error(t, err)
}

func TestTransfer(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	address, err := token.Create(ctx, "Astrano", "ASTR", "1000", alice)
	require.NoError(t, err)

	err = token.Transfer(ctx, address, alice, bob, big.NewInt(400))
	require.NoError(t, err)

	aliceBalance, err := token.BalanceOf(ctx, address, alice)
	require.NoError(t, err)
	require.Equal(t, "600", aliceBalance.String())

	bobBalance, err := token.BalanceOf(ctx, address, bob)
	require.NoError(t, err)
	require.Equal(t, "400", bobBalance.String())

	err = token.Transfer(ctx, address, bob, carol, big.NewInt(500))
	require.ErrorContains(t, err, "insufficient balance")

	err = token.Transfer(ctx, address, token.ZeroAddress, bob, big.NewInt(1))
	require.ErrorContains(t, err, "transfer from the zero address")

	err = token.Transfer(ctx, address, alice, token.ZeroAddress, big.NewInt(1))
	require.ErrorContains(t, err, "transfer to the zero address")
}

func TestTransferUnknownToken(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	err := token.Transfer(ctx, alice, alice, bob, big.NewInt(1))
	require.ErrorContains(t, err, "not found")
}

func TestApproveAndTransferFrom(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	address, err := token.Create(ctx, "Astrano", "ASTR", "1000", alice)
	require.NoError(t, err)

	err = token.Approve(ctx, address, alice, bob, big.NewInt(300))
	require.NoError(t, err)

	allowance, err := token.Allowance(ctx, address, alice, bob)
	require.NoError(t, err)
	require.Equal(t, "300", allowance.String())

	err = token.TransferFrom(ctx, address, bob, alice, carol, big.NewInt(200))
	require.NoError(t, err)

	carolBalance, err := token.BalanceOf(ctx, address, carol)
	require.NoError(t, err)
	require.Equal(t, "200", carolBalance.String())

	allowance, err = token.Allowance(ctx, address, alice, bob)
	require.NoError(t, err)
	require.Equal(t, "100", allowance.String())

	err = token.TransferFrom(ctx, address, bob, alice, carol, big.NewInt(200))
	require.ErrorContains(t, err, "insufficient allowance")
}

func TestApproveOverwrites(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	address, err := token.Create(ctx, "Astrano", "ASTR", "1000", alice)
	require.NoError(t, err)

	require.NoError(t, token.Approve(ctx, address, alice, bob, big.NewInt(300)))
	require.NoError(t, token.Approve(ctx, address, alice, bob, big.NewInt(50)))

	allowance, err := token.Allowance(ctx, address, alice, bob)
	require.NoError(t, err)
	require.Equal(t, "50", allowance.String())
}

func TestGetUserID(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()
	setUserID(ctx, alice)

	userID, err := token.GetUserID(ctx)
	require.NoError(t, err)
	require.Equal(t, alice, userID)
}

func TestGetUserIDInvalidAddress(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()
	setUserID(ctx, "not-an-address")

	_, err := token.GetUserID(ctx)
	require.Error(t, err)
}

func TestBalanceDefaultsToZero(t *testing.T) {
	t.Parallel()
	ctx, _ := newTransactionContext()

	address, err := token.Create(ctx, "Astrano", "ASTR", "1000", alice)
	require.NoError(t, err)

	balance, err := token.BalanceOf(ctx, address, carol)
	require.NoError(t, err)
	require.Equal(t, "0", balance.String())
}

/*
SPDX-License-Identifier: Apache-2.0
*/

package token

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

// GetUserID extracts the signer's account address from the client identity's
// x509 common name.
func GetUserID(ctx kalpsdk.TransactionContextInterface) (string, error) {
	b64ID, err := ctx.GetClientIdentity().GetID()
	if err != nil {
		return "", fmt.Errorf("failed to read clientID: %v", err)
	}

	decodeID, err := base64.StdEncoding.DecodeString(b64ID)
	if err != nil {
		return "", fmt.Errorf("failed to base64 decode clientID: %v", err)
	}

	completeID := string(decodeID)
	start := strings.Index(completeID, "x509::CN=")
	end := strings.Index(completeID, ",")
	if start == -1 || end == -1 || end <= start+9 {
		return "", fmt.Errorf("unexpected clientID format: %s", completeID)
	}
	userID := completeID[start+9 : end]

	if !IsUserAddressValid(userID) {
		return "", fmt.Errorf("%w: %s", ErrInvalidUserAddress, userID)
	}

	return userID, nil
}

func IsUserAddressValid(address string) bool {
	if address == "" {
		return false
	}

	isValid, _ := regexp.MatchString(hexAddressRegex, address)
	return isValid
}

func IsZeroAddress(address string) bool {
	return address == "" || address == ZeroAddress
}

// TxTime returns the transaction timestamp in unix seconds. It is the only
// time source contract logic may consult.
func TxTime(ctx kalpsdk.TransactionContextInterface) (uint64, error) {
	ts, err := ctx.GetTxTimestamp()
	if err != nil {
		return 0, ccerror.New(http.StatusInternalServerError, "failed to get transaction timestamp", err)
	}

	return uint64(ts.Seconds), nil
}

// NewContractAddress derives a deterministic account address for a contract
// instance created within the current transaction. Salts must be unique per
// instance created in a single transaction.
func NewContractAddress(ctx kalpsdk.TransactionContextInterface, salt string) string {
	sum := sha256.Sum256([]byte(ctx.GetTxID() + "_" + salt))
	return hex.EncodeToString(sum[:])[:40]
}

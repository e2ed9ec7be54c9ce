/*
SPDX-License-Identifier: Apache-2.0
*/

package token

import (
	"errors"
	"fmt"
)

var (
	ErrZeroAddress           = errors.New("address is the zero address")
	ErrInvalidUserAddress    = errors.New("InvalidUserAddress")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

func ErrTokenNotFound(address string) error {
	return fmt.Errorf("token %s not found", address)
}

func ErrTokenAlreadyExists(address string) error {
	return fmt.Errorf("token %s already exists", address)
}

func ErrInvalidAmount(entity, value string) error {
	return fmt.Errorf("invalid amount for %s with value %s", entity, value)
}

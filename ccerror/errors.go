/*
SPDX-License-Identifier: Apache-2.0
*/

package ccerror

import "fmt"

// CustomError carries an HTTP-style status code so callers can map a failed
// invocation onto the contract's error taxonomy (400 invalid parameter or
// limit exceeded, 404 missing entity, 409 state violation, 500 state/codec
// failure).
type CustomError struct {
	Code    int
	Message string
	Err     error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

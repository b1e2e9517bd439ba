// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package domain

import (
	"errors"
	"fmt"
)

// Exit codes for eicproxy. A successfully spawned client's own exit code is
// propagated instead of these.
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitZoneNotFound      = 7
	ExitNoAddress         = 8
	ExitSubprocessFailure = 127
)

// Error kinds. Match them with errors.Is.
var (
	ErrMissingTarget           = errors.New("missing target")
	ErrInvalidConnectionString = errors.New("invalid connection string")
	ErrInvalidTarget           = errors.New("invalid target")
	ErrInstanceNotFound        = errors.New("instance not found")
	ErrAmbiguousResolution     = errors.New("ambiguous instance resolution")
	ErrZoneNotFound            = errors.New("instance zone information not found")
	ErrNoAddress               = errors.New("no hostname or IP found")
	ErrKeyGeneration           = errors.New("key generation failed")
	ErrKeyRead                 = errors.New("key read failed")
	ErrKeyPublish              = errors.New("key publish failed")
	ErrSubprocessInvocation    = errors.New("subprocess invocation failed")

	// ErrThrottled marks a transient cloud API error worth retrying.
	ErrThrottled = errors.New("request throttled")
)

var exitCodes = map[error]int{
	ErrZoneNotFound:         ExitZoneNotFound,
	ErrNoAddress:            ExitNoAddress,
	ErrSubprocessInvocation: ExitSubprocessFailure,
}

// ProxyError is the error type surfaced to the command line.
type ProxyError struct {
	Code    int
	Kind    error
	Message string
	Cause   error
}

func (e *ProxyError) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ProxyError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// ExitCode returns the exit code for this error
func (e *ProxyError) ExitCode() int {
	return e.Code
}

// NewError creates a ProxyError of the given kind.
func NewError(kind error, message string) *ProxyError {
	return WrapError(kind, message, nil)
}

// WrapError wraps cause as a ProxyError of the given kind.
func WrapError(kind error, message string, cause error) *ProxyError {
	code, ok := exitCodes[kind]
	if !ok {
		code = ExitGeneralError
	}
	return &ProxyError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// ExitCode extracts the exit code from an error
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var proxyErr *ProxyError
	if errors.As(err, &proxyErr) {
		return proxyErr.ExitCode()
	}
	return ExitGeneralError
}

// IsUsageError reports whether err came from parsing or classifying input,
// in which case the command line help is worth showing.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrMissingTarget) ||
		errors.Is(err, ErrInvalidConnectionString) ||
		errors.Is(err, ErrInvalidTarget)
}

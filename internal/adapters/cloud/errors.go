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

package cloud

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/Adembc/eicproxy/internal/core/domain"
)

var throttleCodes = map[string]bool{
	"Throttling":                            true,
	"ThrottlingException":                   true,
	"RequestThrottled":                      true,
	"RequestThrottledException":             true,
	"RequestLimitExceeded":                  true,
	"TooManyRequestsException":              true,
	"EC2InstanceConnectThrottlingException": true,
	"ServiceUnavailable":                    true,
	"ServiceUnavailableException":           true,
}

// classify maps an SDK error onto the domain error kinds the core retries or
// reports on. Unknown errors are returned wrapped but unclassified.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	code := apiErr.ErrorCode()
	switch {
	case throttleCodes[code]:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrThrottled, err)
	case strings.HasPrefix(code, "InvalidInstanceID."), code == "EC2InstanceNotFoundException":
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInstanceNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

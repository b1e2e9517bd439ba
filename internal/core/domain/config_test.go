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
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/home/dev")

	if cfg.KeyDirectory != "/home/dev/.ssh" {
		t.Fatalf("unexpected key directory %q", cfg.KeyDirectory)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Timeout())
	}
	if cfg.RetryAttempts != DefaultRetryAttempts {
		t.Fatalf("unexpected retry attempts %d", cfg.RetryAttempts)
	}
	if cfg.RetryBaseDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected base delay %s", cfg.RetryBaseDelay())
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{
		Region:           "eu-west-1",
		TimeoutSeconds:   -3,
		RetryAttempts:    -1,
		RetryBaseDelayMS: 0,
		LogMaxSizeMB:     0,
		LogMaxBackups:    -2,
	}.Normalize("/home/dev")

	want := Config{
		Region:           "eu-west-1",
		TimeoutSeconds:   DefaultTimeoutSeconds,
		RetryAttempts:    0,
		RetryBaseDelayMS: DefaultRetryBaseDelayMS,
		KeyDirectory:     "/home/dev/.ssh",
		LogMaxSizeMB:     DefaultLogMaxSizeMB,
		LogMaxBackups:    DefaultLogMaxBackups,
	}
	if cfg != want {
		t.Fatalf("Normalize() = %+v, want %+v", cfg, want)
	}
}

func TestConfigNormalizeKeepsValidValues(t *testing.T) {
	cfg := Config{
		TimeoutSeconds:   30,
		RetryAttempts:    0,
		RetryBaseDelayMS: 50,
		KeyDirectory:     "/keys",
		LogMaxSizeMB:     1,
		LogMaxBackups:    1,
	}
	if got := cfg.Normalize("/home/dev"); got != cfg {
		t.Fatalf("Normalize() changed a valid config: %+v", got)
	}
}

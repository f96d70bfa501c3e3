// Copyright 2025 Poiesic Systems
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


package generator

import (
	"fmt"
	"time"

	"github.com/poiesic/mailroom/ai"
)

// Config holds batch and retry settings for the generator.
type Config struct {
	// Count is the default number of records RunBatch produces.
	Count int

	// Concurrency bounds how many tasks run at once. 0 runs the whole batch at once.
	Concurrency int

	// MaxAttempts is the number of chat calls allowed per record.
	MaxAttempts int

	// Backoff before retry n is min(max(BackoffMin, BackoffMultiplier*2^(n-1)), BackoffMax) BackoffUnits.
	BackoffMultiplier float64
	BackoffMin        float64
	BackoffMax        float64
	BackoffUnit       time.Duration

	// Model overrides the provider's chat model when non-empty.
	Model string

	// Generation holds the sampling parameters sent with every request.
	Generation ai.GenerationConfig
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Count:             30,
		Concurrency:       0,
		MaxAttempts:       3,
		BackoffMultiplier: 1,
		BackoffMin:        2,
		BackoffMax:        10,
		BackoffUnit:       time.Second,
		Generation:        ai.DefaultGenerationConfig(),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidConfig, c.Count)
	case c.Concurrency < 0:
		return fmt.Errorf("%w: concurrency must be non-negative, got %d", ErrInvalidConfig, c.Concurrency)
	case c.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	case c.BackoffMin < 0 || c.BackoffMax < c.BackoffMin:
		return fmt.Errorf("%w: backoff bounds [%g, %g] are invalid", ErrInvalidConfig, c.BackoffMin, c.BackoffMax)
	case c.BackoffMultiplier < 0:
		return fmt.Errorf("%w: backoff multiplier must be non-negative", ErrInvalidConfig)
	case c.BackoffUnit < 0:
		return fmt.Errorf("%w: backoff unit must be non-negative", ErrInvalidConfig)
	case c.Generation.MaxTokens < 0:
		return fmt.Errorf("%w: max tokens must be non-negative", ErrInvalidConfig)
	}
	return nil
}

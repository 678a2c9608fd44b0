// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/findq/findq/internal/output"
	"github.com/findq/findq/internal/refine"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, output.Formats)
}

func GroupByValidator(value any) error {
	if value == "" {
		return nil
	}
	return oneOf(value, refine.GroupFields)
}

func SortByValidator(value any) error {
	var validSortByFlagValues = []string{"name", "count", "total_size", "avg_size"}
	return oneOf(value, validSortByFlagValues)
}

func oneOf(value any, valid []string) error {
	for _, v := range valid {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", valid)
}

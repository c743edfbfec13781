package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jaevor/go-nanoid"
)

const (
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralCodeLength   = 8
	maxCodeAttempts      = 10
)

// uniqueCode draws codes from next until exists reports a free one.
func uniqueCode(ctx context.Context, next func() string, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := next()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free code after %d attempts", maxCodeAttempts)
}

// nanoid needs at least this many characters per draw to read any entropy.
const minNanoidLength = 5

// leadCodeGenerator yields codes like LEAD-2026-042. Suffixes shorter than
// minNanoidLength are cut from a longer draw.
func leadCodeGenerator(prefix string, digits int, now time.Time) (func() string, error) {
	if digits < 1 {
		return nil, fmt.Errorf("lead code needs at least one digit, got %d", digits)
	}
	suffix, err := nanoid.CustomASCII("0123456789", max(digits, minNanoidLength))
	if err != nil {
		return nil, err
	}
	year := now.Year()
	return func() string {
		return fmt.Sprintf("%s-%d-%s", prefix, year, suffix()[:digits])
	}, nil
}

func referralCodeGenerator() (func() string, error) {
	return nanoid.CustomASCII(referralCodeAlphabet, referralCodeLength)
}

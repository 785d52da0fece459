package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"podstudio/models"

	"go.uber.org/zap"
)

const codePrefix = "CONF"

// Counter is an atomic increment-and-read keyed by name. Implementations must
// never hand the same value to two callers for the same key.
type Counter interface {
	Increment(ctx context.Context, key string) (int64, error)
}

// Issuer hands out per-year confirmation sequence numbers.
type Issuer struct {
	counter Counter
	logger  *zap.Logger
}

func NewIssuer(counter Counter, logger *zap.Logger) *Issuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Issuer{counter: counter, logger: logger}
}

func counterKey(year int) string {
	return "confirmation:" + strconv.Itoa(year)
}

// NextSequence returns the next value for year, starting at 1.
func (i *Issuer) NextSequence(ctx context.Context, year int) (int64, error) {
	if year < 1 || year > 9999 {
		return 0, models.NewValidationError("year %d is out of range", year)
	}
	seq, err := i.counter.Increment(ctx, counterKey(year))
	if err != nil {
		return 0, models.WrapUnknown(err, "issue confirmation sequence")
	}
	if seq < 1 {
		return 0, &models.DomainError{Kind: models.KindUnknown, Message: fmt.Sprintf("counter for %d returned %d", year, seq)}
	}
	i.logger.Debug("issued confirmation sequence", zap.Int("year", year), zap.Int64("sequence", seq))
	return seq, nil
}

// FormatConfirmationCode renders CONF-<year>-<seq>, padding seq to four digits.
// Sequences past 9999 keep all their digits.
func FormatConfirmationCode(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", codePrefix, year, seq)
}

// ParseConfirmationCode is the inverse of FormatConfirmationCode.
func ParseConfirmationCode(code string) (int, int64, error) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != codePrefix {
		return 0, 0, models.NewValidationError("confirmation code %q is malformed", code)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return 0, 0, models.NewValidationError("confirmation code %q has an invalid year", code)
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 1 || len(parts[2]) < 4 {
		return 0, 0, models.NewValidationError("confirmation code %q has an invalid sequence", code)
	}
	return year, seq, nil
}

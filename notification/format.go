package notification

import (
	"fmt"

	"github.com/pkg/errors"
)

var sizeUnits = []struct {
	name      string
	threshold int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
}

// FormatFileSize renders a byte count using the largest unit the count
// reaches. Values below 1 KB stay whole bytes; larger values carry two
// decimals under 10, one decimal under 100 and none from 100 up.
func FormatFileSize(sizeBytes int64) (string, error) {
	if sizeBytes < 0 {
		return "", errors.Errorf("File size must be a non-negative integer, got: %d", sizeBytes)
	}
	if sizeBytes == 0 {
		return "0 B", nil
	}
	for _, unit := range sizeUnits {
		if sizeBytes < unit.threshold {
			continue
		}
		value := float64(sizeBytes) / float64(unit.threshold)
		switch {
		case value >= 100:
			return fmt.Sprintf("%.0f %s", value, unit.name), nil
		case value >= 10:
			return fmt.Sprintf("%.1f %s", value, unit.name), nil
		default:
			return fmt.Sprintf("%.2f %s", value, unit.name), nil
		}
	}
	return fmt.Sprintf("%d B", sizeBytes), nil
}

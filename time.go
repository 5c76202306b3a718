package account

import "time"

// AddDays offsets the given instant by a number of days; token expiry
// windows are day-based lifespans.
func AddDays(days int, from time.Time) time.Time {
	return from.AddDate(0, 0, days)
}

// IsExpired reports whether the expiry instant has passed. A nil expiry
// counts as expired: a token without a window can never validate.
func IsExpired(expiryAt *time.Time, now time.Time) bool {
	if expiryAt == nil {
		return true
	}
	return !expiryAt.After(now)
}

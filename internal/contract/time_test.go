package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestParseRelativeTime covers various valid and invalid cases.
func TestParseRelativeTime(t *testing.T) {
	fixedNow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "years", input: "2 years ago", want: fixedNow.AddDate(-2, 0, 0)},
		{name: "single month", input: "1 month ago", want: fixedNow.AddDate(0, -1, 0)},
		{name: "weeks", input: "3 weeks ago", want: fixedNow.Add(-3 * 7 * 24 * time.Hour)},
		{name: "days with casing", input: "10 DAYS ago", want: fixedNow.Add(-10 * 24 * time.Hour)},
		{name: "hours", input: "6 hours ago", want: fixedNow.Add(-6 * time.Hour)},
		{name: "missing ago", input: "2 years", wantErr: true},
		{name: "negative", input: "-2 days ago", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tc.input, fixedNow)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAgeInDays(t *testing.T) {
	asOf := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, AgeInDays(asOf.AddDate(0, 0, -30), asOf))
	// Same-day repositories still report one day of age
	assert.Equal(t, 1, AgeInDays(asOf.Add(-2*time.Hour), asOf))
	assert.Equal(t, 1, AgeInDays(asOf, asOf))
}

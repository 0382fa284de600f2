package validators

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealhub/internal/utils"
)

func TestParseDDMMYYYY(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"valid date", "15/08/1990", time.Date(1990, time.August, 15, 0, 0, 0, 0, time.UTC), true},
		{"leap day", "29/02/2024", time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), true},
		{"century leap day", "29/02/2000", time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC), true},
		{"lower year bound", "01/01/1900", time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"upper year bound", "31/12/2100", time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC), true},
		{"non leap year", "29/02/2023", time.Time{}, false},
		{"century non leap year", "29/02/1900", time.Time{}, false},
		{"day not in month", "31/04/2020", time.Time{}, false},
		{"day zero", "00/01/2020", time.Time{}, false},
		{"month thirteen", "01/13/2020", time.Time{}, false},
		{"year too early", "01/01/1899", time.Time{}, false},
		{"year too late", "01/01/2101", time.Time{}, false},
		{"single digit day", "1/01/2020", time.Time{}, false},
		{"iso format", "2020-01-01", time.Time{}, false},
		{"dashes", "01-01-2020", time.Time{}, false},
		{"trailing text", "01/01/2020x", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDDMMYYYY(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.Is(err, utils.ErrInvalidDateFormat))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDDMMYYYYFieldNamesField(t *testing.T) {
	_, err := ParseDDMMYYYYField("issueDate", "31/02/2020")
	require.Error(t, err)

	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Equal(t, "INVALID_DATE_FORMAT", appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Contains(t, appErr.Details[0], "issueDate")
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("1995-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1995, time.June, 30, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseISODate("1995-06-30T10:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1995, time.June, 30, 4, 30, 0, 0, time.UTC), got)

	_, err = ParseISODate("30/06/1995")
	assert.Error(t, err)
}

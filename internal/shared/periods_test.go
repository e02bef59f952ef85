package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodValidate(t *testing.T) {
	require.NoError(t, Period{Month: 1, Year: 2025}.Validate())
	require.NoError(t, Period{Month: 12, Year: 2100}.Validate())
	require.ErrorIs(t, Period{Month: 0, Year: 2025}.Validate(), ErrInvalidPeriod)
	require.ErrorIs(t, Period{Month: 13, Year: 2025}.Validate(), ErrInvalidPeriod)
	require.ErrorIs(t, Period{Month: 6, Year: 1999}.Validate(), ErrInvalidPeriod)
	require.ErrorIs(t, Period{Month: 6, Year: 2101}.Validate(), ErrInvalidPeriod)
}

func TestPeriodDueDateClampsDay(t *testing.T) {
	p := Period{Month: 2, Year: 2025}
	require.Equal(t, time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), p.DueDate(10))
	// February has no 31st; the day clamps to 28.
	require.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), p.DueDate(31))
	require.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), p.DueDate(0))
}

func TestPeriodFirstDay(t *testing.T) {
	require.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Period{Month: 3, Year: 2025}.FirstDay())
}

func TestPeriodLabel(t *testing.T) {
	require.Equal(t, "3/2025", Period{Month: 3, Year: 2025}.Label())
}

package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPaise(t *testing.T) {
	require.Equal(t, "Rs. 0.00", FormatPaise(0))
	require.Equal(t, "Rs. 20.00", FormatPaise(2000))
	require.Equal(t, "Rs. 2,000.00", FormatPaise(200000))
	require.Equal(t, "Rs. 2,000.50", FormatPaise(200050))
	// Indian grouping: lakhs and crores.
	require.Equal(t, "Rs. 12,34,567.89", FormatPaise(123456789))
	require.Equal(t, "-Rs. 20.00", FormatPaise(-2000))
}

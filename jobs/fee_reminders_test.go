package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseOverdueDays(t *testing.T) {
	require.Equal(t, []int{3, 7, 15}, ParseOverdueDays("3,7,15"))
	require.Equal(t, []int{5}, ParseOverdueDays(" 5 "))
	require.Nil(t, ParseOverdueDays(""))
	require.Equal(t, []int{7}, ParseOverdueDays("bogus,7,-1,0"))
}

func TestAtOverdueMark(t *testing.T) {
	job := &FeeReminderJob{Config: ReminderConfig{OverdueDays: []int{3, 7, 15}}}
	require.True(t, job.atOverdueMark(3))
	require.True(t, job.atOverdueMark(15))
	require.False(t, job.atOverdueMark(4))
	require.False(t, job.atOverdueMark(0))
}

func TestReminderMessages(t *testing.T) {
	job := &FeeReminderJob{}
	target := reminderTarget{
		StudentName:   "Aarav",
		Month:         3,
		Year:          2025,
		AmountPending: 200000,
		DueDate:       time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	}

	target.Category = reminderAdvance
	require.Contains(t, job.message(target), "falls due on 10 Mar 2025")
	require.Contains(t, job.message(target), "Rs. 2,000.00")

	target.Category = reminderDueNow
	require.Contains(t, job.message(target), "due today")

	target.Category = reminderOverdue
	target.OverdueDays = 7
	require.Contains(t, job.message(target), "overdue by 7 days")
}

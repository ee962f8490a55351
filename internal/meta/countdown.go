package meta

import (
	"fmt"
	"time"

	"github.com/hitoshi/mymetas/internal/model"
)

// Countdown は目標の期限表示文字列を導出する。永続化はしない。
// 完了済みなら完了日、未着手なら固定文言、進行中なら目標日からの
// 残り日数を返す。期限は目標日の翌日0時として扱う。
func Countdown(m *model.Meta, now time.Time) string {
	switch m.Status {
	case model.StatusCompleted:
		completedAt := now
		if m.CompletedAt != nil {
			completedAt = *m.CompletedAt
		}
		return "Completed on " + completedAt.Format("2006-01-02")

	case model.StatusToDo:
		return "To do"

	case model.StatusInProgress:
		if m.DateTarget == nil {
			return ""
		}

		deadline := m.DateTarget.AddDate(0, 0, 1)
		d := daysBetween(now, deadline)

		switch {
		case d < 0:
			return fmt.Sprintf("Overdue by %d days", -d)
		case d == 0:
			return "Due today"
		default:
			return fmt.Sprintf("%d days remaining", d)
		}
	}

	return ""
}

// daysBetween はfromからtoまでの暦日差を返す。時刻成分は無視する。
func daysBetween(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDate.Sub(fromDate).Hours() / 24)
}

package dashboard

import (
	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/shipping"
)

// DailyReport summarizes the dailyReport records shipped on date
// (YYYY-MM-DD). An empty date means today.
func (s *Service) DailyReport(user *models.Identity, date string) (shipping.DailyReport, error) {
	if err := s.authorize(user, authz.DailyReport); err != nil {
		return shipping.DailyReport{}, err
	}
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	records := readList[shipping.ReportRecord](s, storage.KeyDailyReport)
	return shipping.Daily(records, date), nil
}

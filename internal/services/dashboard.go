package services

import (
	"time"

	"github.com/campushub/campushub/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type DashboardStats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	TotalProjects       int64 `json:"total_projects"`
	OpenProjects        int64 `json:"open_projects"`
	InProgressProjects  int64 `json:"in_progress_projects"`
	ClosedProjects      int64 `json:"closed_projects"`
	TotalApplications   int64 `json:"total_applications"`
	PendingApplications int64 `json:"pending_applications"`
}

// ApplicationFunnel summarizes application outcomes in the window.
type ApplicationFunnel struct {
	Submitted  int64   `json:"submitted"`
	Accepted   int64   `json:"accepted"`
	Rejected   int64   `json:"rejected"`
	Pending    int64   `json:"pending"`
	AcceptRate float64 `json:"accept_rate"`
}

type ProjectActivity struct {
	ProjectID        uint   `json:"project_id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	ApplicationCount int64  `json:"application_count"`
	MemberCount      int64  `json:"member_count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardResponse struct {
	Stats          DashboardStats    `json:"stats"`
	Funnel         ApplicationFunnel `json:"funnel"`
	ActiveProjects []ProjectActivity `json:"active_projects"`
	ProjectTrend   []DailyCount      `json:"project_trend"`
}

// GetStats returns the admin platform overview for the requested window.
// The window defaults to the last 7 days.
func (s *DashboardService) GetStats(req *DashboardStatsRequest) (*DashboardResponse, error) {
	startDate, endDate := s.parseWindow(req)

	var stats DashboardStats

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers)

	s.db.Model(&models.Project{}).Count(&stats.TotalProjects)
	s.db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusOpen).Count(&stats.OpenProjects)
	s.db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusInProgress).Count(&stats.InProgressProjects)
	s.db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusClosed).Count(&stats.ClosedProjects)

	s.db.Model(&models.ProjectApplication{}).Count(&stats.TotalApplications)
	s.db.Model(&models.ProjectApplication{}).
		Where("status = ?", models.ApplicationStatusPending).
		Count(&stats.PendingApplications)

	funnel := s.collectFunnel(startDate, endDate)
	activeProjects := s.collectActiveProjects(startDate, endDate, 10)
	trend := s.collectProjectTrend(startDate, endDate)

	return &DashboardResponse{
		Stats:          stats,
		Funnel:         funnel,
		ActiveProjects: activeProjects,
		ProjectTrend:   trend,
	}, nil
}

func (s *DashboardService) parseWindow(req *DashboardStatsRequest) (time.Time, time.Time) {
	var startDate, endDate time.Time
	var err error

	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			startDate = time.Now().AddDate(0, 0, -7)
		}
	} else {
		startDate = time.Now().AddDate(0, 0, -7)
	}

	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			endDate = time.Now()
		} else {
			endDate = endDate.Add(24*time.Hour - time.Second)
		}
	} else {
		endDate = time.Now()
	}

	return startDate, endDate
}

func (s *DashboardService) collectFunnel(start, end time.Time) ApplicationFunnel {
	var funnel ApplicationFunnel

	s.db.Model(&models.ProjectApplication{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&funnel.Submitted)

	s.db.Model(&models.ProjectApplication{}).
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.ApplicationStatusAccepted).
		Count(&funnel.Accepted)

	s.db.Model(&models.ProjectApplication{}).
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.ApplicationStatusRejected).
		Count(&funnel.Rejected)

	s.db.Model(&models.ProjectApplication{}).
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.ApplicationStatusPending).
		Count(&funnel.Pending)

	decided := funnel.Accepted + funnel.Rejected
	if decided > 0 {
		funnel.AcceptRate = float64(funnel.Accepted) / float64(decided) * 100
	}

	return funnel
}

func (s *DashboardService) collectActiveProjects(start, end time.Time, limit int) []ProjectActivity {
	var results []struct {
		ProjectID        uint
		ApplicationCount int64
	}

	s.db.Model(&models.ProjectApplication{}).
		Select("project_id, COUNT(*) as application_count").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("project_id").
		Order("application_count DESC").
		Limit(limit).
		Scan(&results)

	var activity []ProjectActivity
	for _, r := range results {
		var project models.Project
		if err := s.db.First(&project, r.ProjectID).Error; err != nil {
			continue
		}

		var memberCount int64
		s.db.Model(&models.ProjectMember{}).
			Where("project_id = ?", project.ID).
			Count(&memberCount)

		activity = append(activity, ProjectActivity{
			ProjectID:        project.ID,
			Title:            project.Title,
			Status:           project.Status,
			ApplicationCount: r.ApplicationCount,
			MemberCount:      memberCount,
		})
	}

	return activity
}

func (s *DashboardService) collectProjectTrend(start, end time.Time) []DailyCount {
	trend := make([]DailyCount, 0)

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for !day.After(end) {
		next := day.Add(24 * time.Hour)

		var count int64
		s.db.Model(&models.Project{}).
			Where("created_at >= ? AND created_at < ?", day, next).
			Count(&count)

		trend = append(trend, DailyCount{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
		day = next
	}

	return trend
}

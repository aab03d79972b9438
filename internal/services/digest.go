package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/campushub/campushub/internal/config"
	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DigestService produces the weekly activity summary for administrators.
// It is a scheduled report written to the audit trail, not a notification
// channel.
type DigestService struct {
	db       *gorm.DB
	calendar *CalendarService
	config   *config.DigestConfig
	cron     *cron.Cron
}

func NewDigestService(db *gorm.DB, cfg *config.DigestConfig) *DigestService {
	return &DigestService{
		db:       db,
		calendar: NewCalendarService(),
		config:   cfg,
	}
}

type DigestStats struct {
	NewUsers             int64 `json:"new_users"`
	NewProjects          int64 `json:"new_projects"`
	OpenProjects         int64 `json:"open_projects"`
	ApplicationsReceived int64 `json:"applications_received"`
	ApplicationsAccepted int64 `json:"applications_accepted"`
	ApplicationsRejected int64 `json:"applications_rejected"`
	MembersJoined        int64 `json:"members_joined"`
}

type ActiveProject struct {
	ProjectID        uint   `json:"project_id"`
	Title            string `json:"title"`
	ApplicationCount int64  `json:"application_count"`
}

// StartScheduler registers the digest cron job. Runs are skipped when the
// scheduled day is a holiday in the configured country.
func (s *DigestService) StartScheduler() {
	if !s.config.Enabled {
		return
	}

	spec := s.config.Cron
	if spec == "" {
		spec = "0 8 * * 1"
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		if s.calendar.IsHoliday(time.Now(), s.countryCode()) {
			logger.Infof("[Digest] Skipping digest, %s is a holiday", time.Now().Format("2006-01-02"))
			return
		}
		if err := s.GenerateAndRecord(); err != nil {
			logger.Errorf("[Digest] Failed to generate digest: %v", err)
		}
	})
	if err != nil {
		logger.Errorf("[Digest] Invalid cron spec %q: %v", spec, err)
		return
	}

	s.cron.Start()
	logger.Infof("[Digest] Scheduler started (cron: %s, country: %s)", spec, s.countryCode())
}

func (s *DigestService) StopScheduler() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *DigestService) countryCode() string {
	if s.config.Country == "" {
		return "NONE"
	}
	return s.config.Country
}

// GenerateAndRecord collects the last week's stats and writes the summary to
// the audit trail where admins can read it from the log viewer.
func (s *DigestService) GenerateAndRecord() error {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	stats := s.CollectStats(start, end)
	topProjects := s.TopProjects(start, end, 5)
	summary := s.BuildSummary(start, end, stats, topProjects)

	LogInfo("digest", "weekly", summary, nil, "", "", stats)
	logger.Infof("[Digest] Weekly digest recorded (%d new users, %d applications)",
		stats.NewUsers, stats.ApplicationsReceived)
	return nil
}

func (s *DigestService) CollectStats(start, end time.Time) DigestStats {
	var stats DigestStats

	s.db.Model(&models.User{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.NewUsers)

	s.db.Model(&models.Project{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.NewProjects)

	s.db.Model(&models.Project{}).
		Where("status = ?", models.ProjectStatusOpen).
		Count(&stats.OpenProjects)

	s.db.Model(&models.ProjectApplication{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.ApplicationsReceived)

	s.db.Model(&models.ProjectApplication{}).
		Where("decided_at BETWEEN ? AND ? AND status = ?", start, end, models.ApplicationStatusAccepted).
		Count(&stats.ApplicationsAccepted)

	s.db.Model(&models.ProjectApplication{}).
		Where("decided_at BETWEEN ? AND ? AND status = ?", start, end, models.ApplicationStatusRejected).
		Count(&stats.ApplicationsRejected)

	s.db.Model(&models.ProjectMember{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&stats.MembersJoined)

	return stats
}

func (s *DigestService) TopProjects(start, end time.Time, limit int) []ActiveProject {
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

	var active []ActiveProject
	for _, r := range results {
		var project models.Project
		if err := s.db.First(&project, r.ProjectID).Error; err == nil {
			active = append(active, ActiveProject{
				ProjectID:        project.ID,
				Title:            project.Title,
				ApplicationCount: r.ApplicationCount,
			})
		}
	}

	return active
}

func (s *DigestService) BuildSummary(start, end time.Time, stats DigestStats, topProjects []ActiveProject) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Weekly digest %s to %s\n\n",
		start.Format("2006-01-02"), end.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("New users: %d\n", stats.NewUsers))
	sb.WriteString(fmt.Sprintf("New projects: %d (open now: %d)\n", stats.NewProjects, stats.OpenProjects))
	sb.WriteString(fmt.Sprintf("Applications: %d received, %d accepted, %d rejected\n",
		stats.ApplicationsReceived, stats.ApplicationsAccepted, stats.ApplicationsRejected))
	sb.WriteString(fmt.Sprintf("Members joined: %d\n", stats.MembersJoined))

	if len(topProjects) > 0 {
		sb.WriteString("\nMost applied-to projects:\n")
		for i, p := range topProjects {
			sb.WriteString(fmt.Sprintf("%d. %s (%d applications)\n", i+1, p.Title, p.ApplicationCount))
		}
	}

	return sb.String()
}

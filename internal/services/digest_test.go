package services

import (
	"strings"
	"testing"
	"time"

	"github.com/campushub/campushub/internal/models"
)

func TestDigestCollectStats(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	appSvc := NewApplicationService(db)
	app, err := appSvc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := appSvc.Accept(project.ID, app.ID, owner.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	svc := NewDigestService(db, nil)

	end := time.Now().Add(time.Hour)
	start := end.AddDate(0, 0, -7)
	stats := svc.CollectStats(start, end)

	if stats.NewUsers != 2 {
		t.Errorf("new users = %d, want 2", stats.NewUsers)
	}
	if stats.NewProjects != 1 || stats.OpenProjects != 1 {
		t.Errorf("projects = %d new / %d open, want 1 / 1", stats.NewProjects, stats.OpenProjects)
	}
	if stats.ApplicationsReceived != 1 || stats.ApplicationsAccepted != 1 || stats.ApplicationsRejected != 0 {
		t.Errorf("applications = %+v", stats)
	}
	if stats.MembersJoined != 1 {
		t.Errorf("members joined = %d, want 1", stats.MembersJoined)
	}
}

func TestDigestTopProjects(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	a := createUser(t, db, "a", "student")
	b := createUser(t, db, "b", "student")

	quiet := createProject(t, db, owner.ID, models.ProjectStatusOpen)
	busy := createProject(t, db, owner.ID, models.ProjectStatusOpen)
	db.Model(busy).Update("title", "Busy Project")

	appSvc := NewApplicationService(db)
	for _, u := range []uint{a.ID, b.ID} {
		if _, err := appSvc.Apply(busy.ID, u, ""); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}
	if _, err := appSvc.Apply(quiet.ID, a.ID, ""); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	svc := NewDigestService(db, nil)

	end := time.Now().Add(time.Hour)
	top := svc.TopProjects(end.AddDate(0, 0, -7), end, 5)
	if len(top) != 2 {
		t.Fatalf("got %d projects, want 2", len(top))
	}
	if top[0].Title != "Busy Project" || top[0].ApplicationCount != 2 {
		t.Errorf("top project = %+v, want Busy Project with 2 applications", top[0])
	}
}

func TestDigestBuildSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewDigestService(db, nil)

	stats := DigestStats{
		NewUsers:             3,
		NewProjects:          2,
		OpenProjects:         5,
		ApplicationsReceived: 7,
		ApplicationsAccepted: 4,
		ApplicationsRejected: 1,
		MembersJoined:        4,
	}
	top := []ActiveProject{{ProjectID: 1, Title: "Busy Project", ApplicationCount: 7}}

	end := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	summary := svc.BuildSummary(end.AddDate(0, 0, -7), end, stats, top)

	for _, want := range []string{
		"2026-08-17 to 2026-08-24",
		"New users: 3",
		"New projects: 2 (open now: 5)",
		"Applications: 7 received, 4 accepted, 1 rejected",
		"Members joined: 4",
		"1. Busy Project (7 applications)",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

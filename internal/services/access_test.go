package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
)

func TestResolveViewerRole(t *testing.T) {
	mentorID := uint(3)
	project := &models.Project{InitiatorID: 1, FinalMentorID: &mentorID}
	members := []models.ProjectMember{
		{ProjectID: 1, UserID: 2},
	}

	tests := []struct {
		name     string
		callerID uint
		want     ViewerRole
	}{
		{"anonymous", 0, ViewerRole{}},
		{"owner", 1, ViewerRole{IsOwner: true}},
		{"member", 2, ViewerRole{IsMember: true}},
		{"mentor", 3, ViewerRole{IsMentor: true}},
		{"stranger", 9, ViewerRole{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveViewerRole(project, members, tt.callerID)
			if got != tt.want {
				t.Errorf("ResolveViewerRole() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveViewerRole_OwnerWhoIsAlsoMentor(t *testing.T) {
	ownerID := uint(1)
	project := &models.Project{InitiatorID: ownerID, FinalMentorID: &ownerID}

	got := ResolveViewerRole(project, nil, ownerID)
	if !got.IsOwner || !got.IsMentor {
		t.Errorf("expected owner+mentor, got %+v", got)
	}
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name   string
		status string
		role   ViewerRole
		want   bool
	}{
		{"open to anonymous", models.ProjectStatusOpen, ViewerRole{}, true},
		{"closed to anonymous", models.ProjectStatusClosed, ViewerRole{}, false},
		{"in_progress to stranger", models.ProjectStatusInProgress, ViewerRole{}, false},
		{"closed to owner", models.ProjectStatusClosed, ViewerRole{IsOwner: true}, true},
		{"closed to member", models.ProjectStatusClosed, ViewerRole{IsMember: true}, true},
		{"in_progress to mentor", models.ProjectStatusInProgress, ViewerRole{IsMentor: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := &models.Project{Status: tt.status}
			if got := CanView(project, tt.role); got != tt.want {
				t.Errorf("CanView() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveProject_HiddenLooksLikeMissing(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	stranger := createUser(t, db, "stranger", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusClosed)

	svc := NewAccessService(db)

	_, _, _, errHidden := svc.ResolveProject(project.ID, stranger.ID)
	_, _, _, errMissing := svc.ResolveProject(99999, stranger.ID)

	var appErrHidden, appErrMissing *response.AppError
	if !errors.As(errHidden, &appErrHidden) || !errors.As(errMissing, &appErrMissing) {
		t.Fatalf("expected AppErrors, got %v / %v", errHidden, errMissing)
	}

	if appErrHidden.HTTPStatus != http.StatusNotFound {
		t.Errorf("hidden project status = %d, want 404", appErrHidden.HTTPStatus)
	}
	if appErrHidden.HTTPStatus != appErrMissing.HTTPStatus || appErrHidden.Message != appErrMissing.Message {
		t.Errorf("hidden and missing projects must be indistinguishable: %+v vs %+v", appErrHidden, appErrMissing)
	}
}

func TestResolveProject_TeamSeesNonOpenProject(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	member := createUser(t, db, "member", "student")
	mentor := createUser(t, db, "mentor", "mentor")

	project := createProject(t, db, owner.ID, models.ProjectStatusInProgress)
	db.Model(project).Update("final_mentor_id", mentor.ID)
	addMember(t, db, project.ID, member.ID)

	svc := NewAccessService(db)

	for _, callerID := range []uint{owner.ID, member.ID, mentor.ID} {
		if _, _, _, err := svc.ResolveProject(project.ID, callerID); err != nil {
			t.Errorf("caller %d should see the project: %v", callerID, err)
		}
	}

	if _, _, _, err := svc.ResolveProject(project.ID, 0); err == nil {
		t.Error("anonymous caller should not see an in_progress project")
	}
}

func TestGetProjectDetail_OwnerSeesPendingApplications(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	appSvc := NewApplicationService(db)
	if _, err := appSvc.Apply(project.ID, applicant.ID, "let me in"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	svc := NewAccessService(db)
	detail, err := svc.GetProjectDetail(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetProjectDetail() error = %v", err)
	}

	if len(detail.PendingApplications) != 1 {
		t.Fatalf("owner should see 1 pending application, got %d", len(detail.PendingApplications))
	}
	if detail.PendingApplications[0].Applicant.Username != "applicant" {
		t.Errorf("applicant profile not joined: %+v", detail.PendingApplications[0])
	}
	if !detail.Viewer.IsOwner {
		t.Error("viewer role should mark the owner")
	}
}

func TestGetProjectDetail_ApplicantSeesOwnStatusOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	onlooker := createUser(t, db, "onlooker", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	appSvc := NewApplicationService(db)
	if _, err := appSvc.Apply(project.ID, applicant.ID, ""); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	svc := NewAccessService(db)

	detail, err := svc.GetProjectDetail(project.ID, applicant.ID)
	if err != nil {
		t.Fatalf("GetProjectDetail() error = %v", err)
	}
	if !detail.HasApplied {
		t.Error("applicant should see has_applied = true")
	}
	if detail.ApplicationStatus != models.ApplicationStatusPending {
		t.Errorf("application status = %q, want pending", detail.ApplicationStatus)
	}
	if len(detail.PendingApplications) != 0 {
		t.Error("non-owner must not see the pending application queue")
	}

	detail, err = svc.GetProjectDetail(project.ID, onlooker.ID)
	if err != nil {
		t.Fatalf("GetProjectDetail() error = %v", err)
	}
	if detail.HasApplied {
		t.Error("onlooker has not applied")
	}
	if len(detail.PendingApplications) != 0 {
		t.Error("onlooker must not see the pending application queue")
	}
}

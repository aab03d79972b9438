package services

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
)

func appErrStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *response.AppError, got %T: %v", err, err)
	}
	return appErr.HTTPStatus
}

func TestApply(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	app, err := svc.Apply(project.ID, applicant.ID, "hi")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("status = %q, want pending", app.Status)
	}
	if app.ApplicantID != applicant.ID || app.ProjectID != project.ID {
		t.Errorf("application row mismatch: %+v", app)
	}
}

func TestApply_Anonymous(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	_, err := svc.Apply(project.ID, 0, "")
	if status := appErrStatus(t, err); status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
}

func TestApply_OwnProject(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	_, err := svc.Apply(project.ID, owner.ID, "")
	if status := appErrStatus(t, err); status != http.StatusUnprocessableEntity {
		t.Errorf("owner applying should be 422, got %d", status)
	}
}

func TestApply_AlreadyMember(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	member := createUser(t, db, "member", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)
	addMember(t, db, project.ID, member.ID)

	svc := NewApplicationService(db)

	_, err := svc.Apply(project.ID, member.ID, "")
	if status := appErrStatus(t, err); status != http.StatusUnprocessableEntity {
		t.Errorf("member applying should be 422, got %d", status)
	}
}

func TestApply_DuplicatePending(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	if _, err := svc.Apply(project.ID, applicant.ID, "first"); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}

	_, err := svc.Apply(project.ID, applicant.ID, "second")
	if status := appErrStatus(t, err); status != http.StatusConflict {
		t.Errorf("duplicate pending should be 409, got %d", status)
	}
}

func TestApply_AfterRejectionAllowed(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	first, err := svc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := svc.Reject(project.ID, first.ID, owner.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	if _, err := svc.Apply(project.ID, applicant.ID, "again"); err != nil {
		t.Errorf("re-applying after rejection should be allowed: %v", err)
	}
}

func TestApply_HiddenProjectLooksMissing(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	stranger := createUser(t, db, "stranger", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusClosed)

	svc := NewApplicationService(db)

	_, err := svc.Apply(project.ID, stranger.ID, "")
	if status := appErrStatus(t, err); status != http.StatusNotFound {
		t.Errorf("apply to hidden project should be 404, got %d", status)
	}
}

func TestAccept(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	app, err := svc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	decided, err := svc.Accept(project.ID, app.ID, owner.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if decided.Status != models.ApplicationStatusAccepted {
		t.Errorf("status = %q, want accepted", decided.Status)
	}
	if decided.DecidedAt == nil {
		t.Error("decided_at should be set")
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, applicant.ID).
		Count(&memberCount)
	if memberCount != 1 {
		t.Errorf("accept should create exactly one membership, got %d", memberCount)
	}
}

func TestAccept_NotOwner(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	member := createUser(t, db, "member", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)
	addMember(t, db, project.ID, member.ID)

	svc := NewApplicationService(db)

	app, err := svc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	_, err = svc.Accept(project.ID, app.ID, member.ID)
	if status := appErrStatus(t, err); status != http.StatusForbidden {
		t.Errorf("non-owner deciding should be 403, got %d", status)
	}
}

func TestAccept_AlreadyDecided(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	app, err := svc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if _, err := svc.Accept(project.ID, app.ID, owner.ID); err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}

	// A second decision on either path must fail with Conflict
	if _, err := svc.Accept(project.ID, app.ID, owner.ID); err == nil {
		t.Error("second accept should fail")
	} else if status := appErrStatus(t, err); status != http.StatusConflict {
		t.Errorf("second accept should be 409, got %d", status)
	}

	if _, err := svc.Reject(project.ID, app.ID, owner.ID); err == nil {
		t.Error("reject after accept should fail")
	} else if status := appErrStatus(t, err); status != http.StatusConflict {
		t.Errorf("reject after accept should be 409, got %d", status)
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, applicant.ID).
		Count(&memberCount)
	if memberCount != 1 {
		t.Errorf("membership count after repeated decisions = %d, want 1", memberCount)
	}
}

func TestAccept_Concurrent(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	app, err := svc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Two racing decisions on the same application: the conditional update
	// keyed on the pending status lets exactly one through.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Accept(project.ID, app.ID, owner.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflict int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		if status := appErrStatus(t, err); status == http.StatusConflict {
			conflict++
		} else {
			t.Errorf("unexpected status %d from racing accept", status)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Errorf("racing accepts: %d succeeded, %d conflicted; want 1 and 1", ok, conflict)
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, applicant.ID).
		Count(&memberCount)
	if memberCount != 1 {
		t.Errorf("membership count after racing accepts = %d, want 1", memberCount)
	}
}

func TestAccept_RejoinAfterRemoval(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	appSvc := NewApplicationService(db)
	memberSvc := NewMemberService(db)

	first, err := appSvc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := appSvc.Accept(project.ID, first.ID, owner.ID); err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}

	var member models.ProjectMember
	if err := db.Where("project_id = ? AND user_id = ?", project.ID, applicant.ID).
		First(&member).Error; err != nil {
		t.Fatalf("loading membership: %v", err)
	}
	if err := memberSvc.Remove(project.ID, member.ID, owner.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	// A removed member may come back through a fresh application
	second, err := appSvc.Apply(project.ID, applicant.ID, "again")
	if err != nil {
		t.Fatalf("re-Apply() after removal error = %v", err)
	}
	if _, err := appSvc.Accept(project.ID, second.ID, owner.ID); err != nil {
		t.Fatalf("re-Accept() after removal error = %v", err)
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, applicant.ID).
		Count(&memberCount)
	if memberCount != 1 {
		t.Errorf("membership count after rejoin = %d, want 1", memberCount)
	}
}

func TestReject_NoMembership(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	app, err := svc.Apply(project.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	decided, err := svc.Reject(project.ID, app.ID, owner.ID)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if decided.Status != models.ApplicationStatusRejected {
		t.Errorf("status = %q, want rejected", decided.Status)
	}

	var memberCount int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).
		Count(&memberCount)
	if memberCount != 0 {
		t.Errorf("reject must not create memberships, got %d", memberCount)
	}
}

func TestDecide_MissingApplication(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	_, err := svc.Accept(project.ID, 12345, owner.ID)
	if status := appErrStatus(t, err); status != http.StatusNotFound {
		t.Errorf("missing application should be 404, got %d", status)
	}
}

func TestDecide_ApplicationScopedToProject(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	projectA := createProject(t, db, owner.ID, models.ProjectStatusOpen)
	projectB := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	app, err := svc.Apply(projectA.ID, applicant.ID, "")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Deciding through the wrong project must not find the application
	_, err = svc.Accept(projectB.ID, app.ID, owner.ID)
	if status := appErrStatus(t, err); status != http.StatusNotFound {
		t.Errorf("cross-project decision should be 404, got %d", status)
	}
}

func TestListPending_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	applicant := createUser(t, db, "applicant", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	svc := NewApplicationService(db)

	if _, err := svc.Apply(project.ID, applicant.ID, "msg"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	apps, err := svc.ListPending(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(apps) != 1 || apps[0].Applicant.Username != "applicant" {
		t.Errorf("unexpected pending list: %+v", apps)
	}

	_, err = svc.ListPending(project.ID, applicant.ID)
	if status := appErrStatus(t, err); status != http.StatusForbidden {
		t.Errorf("non-owner listing should be 403, got %d", status)
	}
}

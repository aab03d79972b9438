package services

import (
	"context"
	"strings"
	"testing"

	"github.com/campushub/campushub/internal/config"
	"github.com/campushub/campushub/internal/models"
)

func TestBuildDescribePrompt(t *testing.T) {
	prompt := BuildDescribePrompt("Campus Bike Share", "iot,go", "cheap lock hardware already sourced")

	for _, want := range []string{
		"Campus Bike Share",
		"iot,go",
		"cheap lock hardware already sourced",
		"150-300 words",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildDescribePrompt_OmitsEmptySections(t *testing.T) {
	prompt := BuildDescribePrompt("Campus Bike Share", "", "")

	if strings.Contains(prompt, "Tags:") {
		t.Error("prompt should omit the tags line when there are no tags")
	}
	if strings.Contains(prompt, "Rough notes") {
		t.Error("prompt should omit the notes section when there are no notes")
	}
}

func TestGenerateDescription_RequiresAPIKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewAIService(db, &config.AIConfig{Provider: "openai"})

	_, err := svc.GenerateDescription(context.Background(), &DescribeTask{Title: "x"})
	if err == nil {
		t.Error("expected error when no API key is configured")
	}
}

func TestProcessDescribeTask_MissingProjectIsNotFatal(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner", "student")
	project := createProject(t, db, owner.ID, models.ProjectStatusOpen)

	// Provider without a key fails fast, so the task errors before any write
	svc := NewAIService(db, &config.AIConfig{Provider: "openai"})
	task := &DescribeTask{ProjectID: project.ID, RequestedBy: owner.ID, Title: project.Title}
	if err := svc.ProcessDescribeTask(context.Background(), task); err == nil {
		t.Error("expected generation failure without an API key")
	}

	var reloaded models.Project
	db.First(&reloaded, project.ID)
	if reloaded.Description != project.Description {
		t.Error("description must not change when generation fails")
	}
}

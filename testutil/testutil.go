package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		FullName:  name,
		Email:     email,
		Role:      role,
		Skills:    []string{},
		Interests: []string{},
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateMentor(t *testing.T, repo user.Repository, name, email string, skills ...string) user.User {
	t.Helper()
	usr := CreateUser(t, repo, name, email, "password123", user.RoleMentor, true)
	if len(skills) > 0 {
		usr.Skills = skills
		var err error
		if usr, err = repo.UpdateUser(context.Background(), usr); err != nil {
			t.Fatalf("createMentor() failed: %v", err)
		}
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	instructorID, title, category, level string,
	published bool,
	createdAt ...time.Time,
) course.Course {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	c, err := repo.CreateCourse(context.Background(), course.Course{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  title + " description",
		InstructorID: instructorID,
		Category:     category,
		Level:        level,
		Tags:         []string{},
		IsPublished:  published,
		CreatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return c
}

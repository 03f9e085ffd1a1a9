package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

const MaxGroupTitleLength = 200

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// GroupService handles the group lifecycle. Groups have no public HTTP
// mutation surface — they are created through fixture loading at startup or
// directly by admin tooling, and read by everyone.
type GroupService struct {
	groups repository.GroupRepository
	logger *slog.Logger
}

func NewGroupService(groups repository.GroupRepository, logger *slog.Logger) *GroupService {
	return &GroupService{
		groups: groups,
		logger: logger,
	}
}

// Create validates and saves a new group. A duplicate slug returns
// ErrConflict — fixture loading relies on that to be idempotent.
func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "group title is required")
	}
	if len(title) > MaxGroupTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("group title must be %d characters or less", MaxGroupTitleLength))
	}
	if slug == "" {
		return nil, apperror.ValidationFailed("slug", "group slug is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperror.ValidationFailed("slug",
			"group slug may contain only lowercase letters, digits and hyphens")
	}

	group := &model.Group{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	}

	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("group created",
		slog.String("id", group.ID),
		slog.String("slug", group.Slug),
	)

	return group, nil
}

// GetBySlug retrieves a group by its URL slug.
func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return s.groups.GetGroupBySlug(ctx, slug)
}

// List returns every group, for the create-post form's group picker.
func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		s.logger.Error("failed to list groups", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	return groups, nil
}

// Delete removes a group. Its posts survive with the group cleared.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := s.groups.DeleteGroup(ctx, id); err != nil {
		return err
	}

	s.logger.Info("group deleted", slog.String("id", id))
	return nil
}

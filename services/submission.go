package services

import (
	"context"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/mfolden/portfolio-backend/errs"
	"github.com/mfolden/portfolio-backend/mediahost"
	"github.com/mfolden/portfolio-backend/models"
)

// Per-file upload caps. Motion projects carry video files and get the
// larger cap; everything else is images.
const (
	VideoFileSizeCap = 50 << 20
	ImageFileSizeCap = 5 << 20
)

const (
	titleMinLen       = 3
	titleMaxLen       = 100
	descriptionMaxLen = 500
)

var liveLinkPattern = regexp.MustCompile(`^https?://`)

// RoleStore resolves role records for the pre-submit authorization check.
type RoleStore interface {
	FindByID(id string) (*models.User, error)
}

// ProjectStore is the slice of the document store the submission flow
// writes through.
type ProjectStore interface {
	FindByID(id uuid.UUID) (*models.Project, error)
	Add(project *models.Project) error
	Update(project *models.Project) error
}

// FileInput is one selected file. Open is only called after the size
// guard passes, so an oversized file never costs a network call.
type FileInput struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Input carries the raw form fields of the upload/edit form.
type Input struct {
	Title       string
	Description string
	Type        models.ProjectType
	LiveLink    string
	Tags        string
	Files       []FileInput
}

// SubmissionService runs the upload/edit pipeline: local validation, an
// independent admin re-check, sequential uploads, then a create or a
// full-record update. A failure at any step aborts the remaining steps;
// files already uploaded in the same submission stay uploaded.
type SubmissionService struct {
	roles    RoleStore
	projects ProjectStore
	uploader mediahost.Uploader
	logger   zerolog.Logger
}

func NewSubmissionService(roles RoleStore, projects ProjectStore, uploader mediahost.Uploader) *SubmissionService {
	return &SubmissionService{
		roles:    roles,
		projects: projects,
		uploader: uploader,
		logger:   log.With().Str("handlerName", "submissionService").Logger(),
	}
}

// Create validates and stores a new project owned by callerID.
func (s *SubmissionService) Create(ctx context.Context, callerID string, in Input) (*models.Project, error) {
	if err := validate(in, true); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(callerID); err != nil {
		return nil, err
	}

	items, err := s.uploadAll(ctx, in)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Media:       datatypes.NewJSONSlice(items),
		Status:      "published",
		Featured:    false,
		Views:       0,
		Likes:       0,
		OwnerID:     callerID,
	}
	if in.Type == models.ProjectTypeFrontend {
		link := strings.TrimSpace(in.LiveLink)
		project.LiveLink = &link
	}
	project.Tags = models.NewProjectTags(project.ID, models.ParseTags(in.Tags))

	if err := s.projects.Add(project); err != nil {
		return nil, errs.NewWriteError("create", "project", err)
	}
	s.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
	return project, nil
}

// Update validates and applies a full-record update. When no new files are
// selected the existing media sequence is preserved; otherwise it is
// replaced entirely by the new uploads.
func (s *SubmissionService) Update(ctx context.Context, callerID string, id uuid.UUID, in Input) (*models.Project, error) {
	if err := validate(in, false); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(callerID); err != nil {
		return nil, err
	}

	existing, err := s.projects.FindByID(id)
	if err != nil {
		return nil, errs.NewDataFetchError("project", err)
	}
	if existing == nil {
		return nil, errs.NewNotFound("project")
	}

	// The type is fixed at creation. Accepting a different submitted type
	// here would also let a frontend project's live link dodge validation.
	if in.Type != existing.Type {
		return nil, errs.NewInvalidFieldError("type", "cannot change after creation")
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Description = strings.TrimSpace(in.Description)
	existing.Tags = models.NewProjectTags(existing.ID, models.ParseTags(in.Tags))
	if existing.Type == models.ProjectTypeFrontend {
		link := strings.TrimSpace(in.LiveLink)
		existing.LiveLink = &link
	}

	if len(in.Files) > 0 {
		items, err := s.uploadAll(ctx, Input{Type: existing.Type, Files: in.Files})
		if err != nil {
			return nil, err
		}
		existing.Media = datatypes.NewJSONSlice(items)
		existing.MediaURL = nil
	}

	if err := s.projects.Update(existing); err != nil {
		return nil, errs.NewWriteError("update", "project", err)
	}
	s.logger.Info().Str("projectID", existing.ID.String()).Msg("project updated")
	return existing, nil
}

// requireAdmin re-verifies the caller's role against the store before the
// uploads and the write. This is deliberately independent of the route
// guard: stale client state never reaches a write. It runs after local
// validation so an invalid form costs no network call.
func (s *SubmissionService) requireAdmin(callerID string) error {
	if callerID == "" {
		return errs.NewRoleRecordMissingError("(unknown)")
	}
	user, err := s.roles.FindByID(callerID)
	if err != nil {
		return errs.NewRoleCheckFailedError(err)
	}
	if user == nil {
		return errs.NewRoleRecordMissingError(callerID)
	}
	if !user.IsAdmin() {
		return errs.NewNotAdminError()
	}
	return nil
}

// uploadAll sends the selected files to the media host one at a time, in
// selection order. The per-file size guard runs before each file's
// network call; prior uploads are not rolled back on a later failure.
func (s *SubmissionService) uploadAll(ctx context.Context, in Input) ([]models.MediaItem, error) {
	kind := mediahost.KindForProject(in.Type)
	limit := int64(ImageFileSizeCap)
	if kind == mediahost.KindVideo {
		limit = VideoFileSizeCap
	}

	var items []models.MediaItem
	for _, file := range in.Files {
		if file.Size > limit {
			return nil, errs.NewFileTooLargeError(file.Name, file.Size, limit)
		}

		reader, err := file.Open()
		if err != nil {
			return nil, errs.NewUploadError(file.Name, err)
		}
		url, err := s.uploader.Upload(ctx, reader, file.Name, kind)
		reader.Close()
		if err != nil {
			return nil, err
		}

		items = append(items, models.MediaItem{Type: in.Type.MediaKind(), URL: url})
	}
	return items, nil
}

// validate enforces the form field constraints. File selection is required
// only for new projects; an edit without files keeps its media.
func validate(in Input, isCreate bool) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return errs.NewInvalidFieldError("title", "must be between 3 and 100 characters")
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) > descriptionMaxLen {
		return errs.NewInvalidFieldError("description", "must be at most 500 characters")
	}

	if !in.Type.Valid() {
		return errs.NewInvalidFieldError("type", "must be one of graphics, motion, frontend")
	}

	if in.Type == models.ProjectTypeFrontend {
		link := strings.TrimSpace(in.LiveLink)
		if link == "" {
			return errs.NewMissingRequiredFieldError("live_link")
		}
		if !liveLinkPattern.MatchString(link) {
			return errs.NewInvalidFieldError("live_link", "must start with http:// or https://")
		}
	}

	if isCreate && len(in.Files) == 0 {
		return errs.NewMissingRequiredFieldError("files")
	}
	return nil
}

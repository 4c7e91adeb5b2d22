package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/mfolden/portfolio-backend/models"
	"github.com/mfolden/portfolio-backend/services"
)

type fakeProjectStore struct {
	projects []models.Project
	listErr  error
	deleted  []uuid.UUID
	viewed   []uuid.UUID
}

func (f *fakeProjectStore) FindAllOrdered() ([]models.Project, error) {
	return f.projects, f.listErr
}

func (f *fakeProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	for i := range f.projects {
		if f.projects[i].ID == id {
			return &f.projects[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProjectStore) Delete(id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProjectStore) IncrementViews(id uuid.UUID) error {
	f.viewed = append(f.viewed, id)
	return nil
}

type fakeSubmitter struct {
	created *models.Project
	err     error
	gotIn   services.Input
}

func (f *fakeSubmitter) Create(ctx context.Context, callerID string, in services.Input) (*models.Project, error) {
	f.gotIn = in
	return f.created, f.err
}

func (f *fakeSubmitter) Update(ctx context.Context, callerID string, id uuid.UUID, in services.Input) (*models.Project, error) {
	f.gotIn = in
	return f.created, f.err
}

func testProject(id uuid.UUID) models.Project {
	return models.Project{
		ID:    id,
		Title: "Poster Series",
		Type:  models.ProjectTypeGraphics,
		Media: datatypes.NewJSONSlice([]models.MediaItem{
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/a.png"},
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/b.png"},
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/c.png"},
		}),
	}
}

func newTestRouter(store *fakeProjectStore, submitter *fakeSubmitter) *chi.Mux {
	handler := newProjectHandler(store, submitter)
	galleryH := newGalleryHandler(store)

	r := chi.NewRouter()
	r.Get("/projects", handler.getAllProjects())
	r.Get("/project/{projectID}", handler.getProject())
	r.Get("/project/{projectID}/gallery", galleryH.viewGallery())
	r.Post("/project/{projectID}/view", handler.incrementViews())
	r.Post("/projects", handler.createProject())
	r.Delete("/project/{projectID}", handler.deleteProject())
	return r
}

func TestGetAllProjects(t *testing.T) {
	store := &fakeProjectStore{projects: []models.Project{
		testProject(uuid.New()),
		testProject(uuid.New()),
	}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var collection ProjectCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Equal(t, 2, collection.Total)
	require.NotNil(t, collection.Projects[0].Thumbnail)
	assert.Equal(t, "https://cdn.example.com/a.png", collection.Projects[0].Thumbnail.URL)
}

func TestGetAllProjectsDegradesToEmptyOnError(t *testing.T) {
	store := &fakeProjectStore{
		projects: []models.Project{testProject(uuid.New())},
		listErr:  errors.New("connection refused"),
	}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))

	require.Equal(t, http.StatusOK, rec.Code, "the public page never sees the failure")
	var collection ProjectCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Zero(t, collection.Total)
}

func TestGetProjectNotFound(t *testing.T) {
	router := newTestRouter(&fakeProjectStore{}, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectNormalizesLegacyMedia(t *testing.T) {
	id := uuid.New()
	legacy := "https://cdn.example.com/legacy.mp4"
	store := &fakeProjectStore{projects: []models.Project{{
		ID:       id,
		Title:    "Showreel",
		Type:     models.ProjectTypeMotion,
		MediaURL: &legacy,
	}}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view ProjectView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Media, 1)
	assert.Equal(t, models.MediaTypeVideo, view.Media[0].Type)
	require.NotNil(t, view.Thumbnail)
	assert.Equal(t, legacy, view.Thumbnail.URL)
}

func TestGalleryNavigation(t *testing.T) {
	id := uuid.New()
	store := &fakeProjectStore{projects: []models.Project{testProject(id)}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/project/"+id.String()+"/gallery?index=2&key=ArrowRight", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp galleryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Closed)
	assert.Equal(t, 0, resp.Frame.Index, "arrow right from the last item wraps to the first")
	assert.Equal(t, "1 / 3", resp.Frame.Indicator)
	assert.Len(t, resp.Frame.Thumbnails, 3)
}

func TestGalleryEscapeCloses(t *testing.T) {
	id := uuid.New()
	store := &fakeProjectStore{projects: []models.Project{testProject(id)}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/project/"+id.String()+"/gallery?index=1&key=Escape", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp galleryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Closed)
}

func TestGallerySelectOutOfRange(t *testing.T) {
	id := uuid.New()
	store := &fakeProjectStore{projects: []models.Project{testProject(id)}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/project/"+id.String()+"/gallery?select=9", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIncrementViews(t *testing.T) {
	id := uuid.New()
	store := &fakeProjectStore{projects: []models.Project{testProject(id)}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/project/"+id.String()+"/view", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, store.viewed)
}

func TestDeleteProject(t *testing.T) {
	id := uuid.New()
	store := &fakeProjectStore{projects: []models.Project{testProject(id)}}
	router := newTestRouter(store, &fakeSubmitter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/project/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, store.deleted)
}

func TestCreateProjectParsesMultipartForm(t *testing.T) {
	id := uuid.New()
	created := testProject(id)
	submitter := &fakeSubmitter{created: &created}
	router := newTestRouter(&fakeProjectStore{}, submitter)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("title", "Poster Series"))
	require.NoError(t, form.WriteField("type", "graphics"))
	require.NoError(t, form.WriteField("tags", "print, poster"))
	part, err := form.CreateFormFile("files", "poster.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/projects", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Poster Series", submitter.gotIn.Title)
	assert.Equal(t, models.ProjectTypeGraphics, submitter.gotIn.Type)
	assert.Equal(t, "print, poster", submitter.gotIn.Tags)
	require.Len(t, submitter.gotIn.Files, 1)
	assert.Equal(t, "poster.png", submitter.gotIn.Files[0].Name)
}

func TestCreateProjectSubmissionError(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("boom")}
	router := newTestRouter(&fakeProjectStore{}, submitter)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("title", "x"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/projects", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

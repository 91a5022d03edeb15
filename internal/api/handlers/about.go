package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/devfolio/blog-api/internal/api/middleware"
	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/service"
)

type AboutHandler struct {
	about    *service.AboutService
	wr       *respond.Writer
	maxBytes int64
}

func NewAboutHandler(about *service.AboutService, maxBytes int64, wr *respond.Writer) *AboutHandler {
	return &AboutHandler{about: about, wr: wr, maxBytes: maxBytes}
}

// skillList accepts either a JSON array of strings or a single
// comma-separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}
	*s = strings.Split(csv, ",")
	return nil
}

type aboutRequest struct {
	FullName   string     `json:"fullName"`
	Headline   string     `json:"headline"`
	Summary    string     `json:"summary"`
	Location   string     `json:"location"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Experience string     `json:"experience"`
	Education  string     `json:"education"`
	Skills     *skillList `json:"skills"`
}

func (h *AboutHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.about.Get(r.Context())
	if err != nil {
		h.wr.Error(w, err)
		return
	}
	h.wr.JSON(w, http.StatusOK, profile, "About profile fetched successfully")
}

func (h *AboutHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, true)
}

func (h *AboutHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, false)
}

func (h *AboutHandler) upsert(w http.ResponseWriter, r *http.Request, enforceRequired bool) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
		return
	}

	var req aboutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.wr.Error(w, domain.NewValidationError("Invalid request body"))
		return
	}

	input := service.AboutInput{
		FullName:   req.FullName,
		Headline:   req.Headline,
		Summary:    req.Summary,
		Location:   req.Location,
		Email:      req.Email,
		Phone:      req.Phone,
		Experience: req.Experience,
		Education:  req.Education,
	}
	if req.Skills != nil {
		input.Skills = *req.Skills
		input.SkillsSet = true
	}

	profile, err := h.about.Upsert(r.Context(), input, user.ID, enforceRequired)
	if err != nil {
		h.wr.Error(w, err)
		return
	}
	h.wr.JSON(w, http.StatusOK, profile, "About profile saved successfully")
}

func (h *AboutHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.wr.Error(w, domain.NewValidationError("File is too large"))
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		h.wr.Error(w, domain.NewValidationError("Resume file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.wr.Error(w, domain.NewValidationError("Failed to read resume file"))
		return
	}

	profile, err := h.about.UpdateResume(r.Context(), data, header.Header.Get("Content-Type"), user.ID)
	if err != nil {
		h.wr.Error(w, err)
		return
	}
	h.wr.JSON(w, http.StatusOK, profile, "Resume uploaded successfully")
}

func (h *AboutHandler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		h.wr.Error(w, domain.NewUnauthorizedError("Unauthorized"))
		return
	}

	profile, err := h.about.DeleteResume(r.Context(), user.ID)
	if err != nil {
		h.wr.Error(w, err)
		return
	}
	h.wr.JSON(w, http.StatusOK, profile, "Resume deleted successfully")
}

func (h *AboutHandler) PreviewResume(w http.ResponseWriter, r *http.Request) {
	h.redirectToResume(w, r)
}

func (h *AboutHandler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	h.redirectToResume(w, r)
}

func (h *AboutHandler) redirectToResume(w http.ResponseWriter, r *http.Request) {
	url, err := h.about.ResumeURL(r.Context())
	if err != nil {
		h.wr.Error(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers"
)

const ProviderID = "canvas"

const (
	DefaultEnrollmentType  = "teacher"
	DefaultEnrollmentState = "active"
	DefaultCourseState     = "available"
	SubmissionTypeText     = "online_text_entry"
)

const (
	GradingTypePassFail  = "pass_fail"
	GradingTypePercent   = "percent"
	GradingTypeLetter    = "letter_grade"
	GradingTypeGPAScale  = "gpa_scale"
	GradingTypePoints    = "points"
	GradingTypeNotGraded = "not_graded"
)

const (
	defaultGradingType    = GradingTypePoints
	routeCourses          = "/api/v1/courses"
	routeProfile          = "/api/v1/users/self/profile"
	validationFailedLabel = "providers/canvas: validation failed"
)

// Provider is the Canvas endpoint catalog. Canvas is self hosted, so the
// instance url doubles as the api url and the base of the oauth endpoints.
type Provider struct {
	*providers.LMSAdapter
}

// ConfigForInstance returns the oauth and api urls of a Canvas instance.
func ConfigForInstance(instanceURL string) core.ProviderConfig {
	base := strings.TrimRight(strings.TrimSpace(instanceURL), "/")
	if base == "" {
		return core.ProviderConfig{}
	}
	return core.ProviderConfig{
		AuthURL:  base + "/login/oauth2/auth",
		TokenURL: base + "/login/oauth2/token",
		APIURL:   base + "/",
	}
}

func New(cfg core.ProviderConfig, opts ...providers.Option) (*Provider, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, fmt.Errorf("providers/canvas: api url is required")
	}
	defaults := ConfigForInstance(apiOrigin(cfg.APIURL))
	if strings.TrimSpace(cfg.AuthURL) == "" {
		cfg.AuthURL = defaults.AuthURL
	}
	if strings.TrimSpace(cfg.TokenURL) == "" {
		cfg.TokenURL = defaults.TokenURL
	}
	adapter, err := providers.NewLMSAdapter(ProviderID, cfg, ParseError, opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{LMSAdapter: adapter}, nil
}

type ListCoursesRequest struct {
	EnrollmentType  string
	EnrollmentState string
	State           []string
	Include         []string
	PerPage         int
}

// GetCourses lists the courses the token owner is enrolled in, by default as
// an active teacher of available courses.
func (p *Provider) GetCourses(ctx context.Context, req ListCoursesRequest, token core.Token) (core.CallResult, error) {
	data := map[string]any{
		"enrollment_type":  firstNonEmpty(req.EnrollmentType, DefaultEnrollmentType),
		"enrollment_state": firstNonEmpty(req.EnrollmentState, DefaultEnrollmentState),
	}
	states := compact(req.State)
	if len(states) == 0 {
		states = []string{DefaultCourseState}
	}
	data["state[]"] = states
	if include := compact(req.Include); len(include) > 0 {
		data["include[]"] = include
	}
	if req.PerPage < 0 {
		var fields core.FieldErrors
		fields.Add("per_page", "must not be negative")
		return core.CallResult{}, fields.Err(validationFailedLabel)
	}
	if req.PerPage > 0 {
		data["per_page"] = req.PerPage
	}
	return p.Get(ctx, routeCourses, data, token, core.CallOptions{})
}

// Game is the activity an assignment links to.
type Game struct {
	Hash      string
	Name      string
	Expiry    int64
	CreatedAt time.Time
}

// DueAt returns the moment the game stops accepting attempts.
func (g Game) DueAt() time.Time {
	return g.CreatedAt.Add(time.Duration(g.Expiry) * time.Second)
}

type CreateAssignmentRequest struct {
	CourseID       string
	URL            string
	Game           Game
	GradingType    string
	PointsPossible float64
}

func (r CreateAssignmentRequest) Validate() error {
	var fields core.FieldErrors
	fields.Required("course_id", r.CourseID)
	validateLink(&fields, "url", r.URL)
	fields.Required("game.hash", r.Game.Hash)
	fields.Required("game.name", r.Game.Name)
	if r.Game.Expiry < 0 {
		fields.Add("game.expiry", "must not be negative")
	}
	if r.Game.CreatedAt.IsZero() {
		fields.Add("game.created_at", "is required")
	}
	if gradingType := strings.TrimSpace(r.GradingType); gradingType != "" && !ValidGradingType(gradingType) {
		fields.Add("grading_type", fmt.Sprintf("unsupported grading type %q", gradingType))
	}
	if r.PointsPossible < 0 {
		fields.Add("points_possible", "must not be negative")
	}
	return fields.Err(validationFailedLabel)
}

// CreateAssignment publishes an online text entry assignment that links to
// the game and is due when the game expires.
func (p *Provider) CreateAssignment(ctx context.Context, req CreateAssignmentRequest, token core.Token) (core.CallResult, error) {
	if err := req.Validate(); err != nil {
		return core.CallResult{}, err
	}
	description, err := renderAssignment(req.Game, req.URL)
	if err != nil {
		return core.CallResult{}, err
	}
	assignment := map[string]any{
		"name":                   req.Game.Name,
		"submission_types":       []string{SubmissionTypeText},
		"peer_reviews":           false,
		"automatic_peer_reviews": false,
		"notify_of_update":       false,
		"points_possible":        req.PointsPossible,
		"grading_type":           firstNonEmpty(req.GradingType, defaultGradingType),
		"due_at":                 Timestamp(req.Game.DueAt()),
		"description":            description,
		"published":              true,
	}
	route := routeCourses + "/" + url.PathEscape(strings.TrimSpace(req.CourseID)) + "/assignments"
	return p.Post(ctx, route, map[string]any{"assignment": assignment}, token, core.CallOptions{})
}

type SubmitRequest struct {
	CourseID     string
	AssignmentID string
	URL          string
	Result       map[string]any
}

func (r SubmitRequest) Validate() error {
	var fields core.FieldErrors
	fields.Required("course_id", r.CourseID)
	fields.Required("assignment_id", r.AssignmentID)
	validateLink(&fields, "url", r.URL)
	if r.Result == nil {
		fields.Add("result", "is required")
	}
	return fields.Err(validationFailedLabel)
}

// Submit turns in the student's result as an online text entry.
func (p *Provider) Submit(ctx context.Context, req SubmitRequest, token core.Token) (core.CallResult, error) {
	if err := req.Validate(); err != nil {
		return core.CallResult{}, err
	}
	body, err := renderSubmission(req.Result, req.URL)
	if err != nil {
		return core.CallResult{}, err
	}
	route := routeCourses + "/" + url.PathEscape(strings.TrimSpace(req.CourseID)) +
		"/assignments/" + url.PathEscape(strings.TrimSpace(req.AssignmentID)) + "/submissions"
	return p.Post(ctx, route, map[string]any{
		"submission": map[string]any{
			"submission_type": SubmissionTypeText,
			"body":            body,
		},
	}, token, core.CallOptions{})
}

func (p *Provider) GetProfile(ctx context.Context, token core.Token) (core.CallResult, error) {
	return p.Get(ctx, routeProfile, nil, token, core.CallOptions{})
}

func ValidGradingType(value string) bool {
	switch strings.TrimSpace(value) {
	case GradingTypePassFail, GradingTypePercent, GradingTypeLetter, GradingTypeGPAScale, GradingTypePoints, GradingTypeNotGraded:
		return true
	default:
		return false
	}
}

// Timestamp renders t the way Canvas expects ISO 8601 dates.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func validateLink(fields *core.FieldErrors, field string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		fields.Add(field, "is required")
		return
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		fields.Add(field, "must be an absolute url")
	}
}

func apiOrigin(apiURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

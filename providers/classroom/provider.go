package classroom

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers"
)

const (
	ProviderID      = "classroom"
	DefaultAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
	DefaultAPIURL   = "https://classroom.googleapis.com/"
	UserInfoURL     = "https://www.googleapis.com/userinfo/v2/me"
)

const (
	ScopeCourses         = "https://www.googleapis.com/auth/classroom.courses.readonly"
	ScopeCourseWork      = "https://www.googleapis.com/auth/classroom.coursework.students"
	ScopeCourseWorkMe    = "https://www.googleapis.com/auth/classroom.coursework.me"
	ScopeUserInfoProfile = "https://www.googleapis.com/auth/userinfo.profile"
	ScopeUserInfoEmail   = "https://www.googleapis.com/auth/userinfo.email"
)

const (
	CourseStateActive      = "ACTIVE"
	CourseStateArchived    = "ARCHIVED"
	CourseStateProvisioned = "PROVISIONED"
	CourseStateDeclined    = "DECLINED"
)

const (
	defaultTeacherID      = "me"
	defaultMaxPoints      = 100
	validationFailedLabel = "providers/classroom: validation failed"
)

// Provider is the Google Classroom endpoint catalog.
type Provider struct {
	*providers.LMSAdapter
}

func DefaultConfig() core.ProviderConfig {
	return core.ProviderConfig{
		AuthURL:  DefaultAuthURL,
		TokenURL: DefaultTokenURL,
		APIURL:   DefaultAPIURL,
		Scope: []string{
			ScopeCourses,
			ScopeCourseWork,
			ScopeCourseWorkMe,
			ScopeUserInfoProfile,
			ScopeUserInfoEmail,
		},
	}
}

func New(cfg core.ProviderConfig, opts ...providers.Option) (*Provider, error) {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.AuthURL) == "" {
		cfg.AuthURL = defaults.AuthURL
	}
	if strings.TrimSpace(cfg.TokenURL) == "" {
		cfg.TokenURL = defaults.TokenURL
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = defaults.APIURL
	}
	if len(cfg.Scope) == 0 {
		cfg.Scope = defaults.Scope
	}
	adapter, err := providers.NewLMSAdapter(ProviderID, cfg, ParseError, opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{LMSAdapter: adapter}, nil
}

// GetProfile reads the Google account behind the token.
func (p *Provider) GetProfile(ctx context.Context, token core.Token) (core.CallResult, error) {
	return p.Get(ctx, UserInfoURL, nil, token, core.CallOptions{})
}

type ListCoursesRequest struct {
	StudentID    string
	TeacherID    string
	CourseStates []string
	PageSize     int
	PageToken    string
}

func (r ListCoursesRequest) Validate() error {
	var fields core.FieldErrors
	for _, state := range r.CourseStates {
		if !ValidCourseState(state) {
			fields.Add("courseStates", fmt.Sprintf("unsupported course state %q", state))
		}
	}
	if r.PageSize < 0 {
		fields.Add("pageSize", "must not be negative")
	}
	return fields.Err(validationFailedLabel)
}

// GetCourses lists courses, by default those the token owner teaches.
func (p *Provider) GetCourses(ctx context.Context, req ListCoursesRequest, token core.Token) (core.CallResult, error) {
	if err := req.Validate(); err != nil {
		return core.CallResult{}, err
	}
	data := map[string]any{
		"teacherId": firstNonEmpty(req.TeacherID, defaultTeacherID),
	}
	if studentID := strings.TrimSpace(req.StudentID); studentID != "" {
		data["studentId"] = studentID
	}
	if len(req.CourseStates) > 0 {
		states := make([]string, 0, len(req.CourseStates))
		for _, state := range req.CourseStates {
			states = append(states, strings.ToUpper(strings.TrimSpace(state)))
		}
		data["courseStates"] = states
	}
	if req.PageSize > 0 {
		data["pageSize"] = req.PageSize
	}
	if pageToken := strings.TrimSpace(req.PageToken); pageToken != "" {
		data["pageToken"] = pageToken
	}
	return p.Get(ctx, "v1/courses", data, token, core.CallOptions{})
}

type Link struct {
	URL          string
	Title        string
	ThumbnailURL string
}

func (l Link) material() map[string]any {
	link := map[string]any{"url": strings.TrimSpace(l.URL)}
	if title := strings.TrimSpace(l.Title); title != "" {
		link["title"] = title
	}
	if thumbnail := strings.TrimSpace(l.ThumbnailURL); thumbnail != "" {
		link["thumbnailUrl"] = thumbnail
	}
	return map[string]any{"link": link}
}

// Game is the activity coursework links to.
type Game struct {
	Name      string
	Expiry    int64
	CreatedAt time.Time
}

func (g Game) DueAt() time.Time {
	return g.CreatedAt.Add(time.Duration(g.Expiry) * time.Second)
}

type CreateAssignmentRequest struct {
	CourseID    string
	Description string
	Link        Link
	Game        Game
	MaxPoints   float64
}

func (r CreateAssignmentRequest) Validate() error {
	var fields core.FieldErrors
	fields.Required("courseId", r.CourseID)
	validateLink(&fields, "link.url", r.Link.URL)
	fields.Required("link.title", r.Link.Title)
	fields.Required("game.name", r.Game.Name)
	if r.Game.Expiry < 0 {
		fields.Add("game.expiry", "must not be negative")
	}
	if r.Game.CreatedAt.IsZero() {
		fields.Add("game.createdAt", "is required")
	}
	if r.MaxPoints < 0 {
		fields.Add("maxPoints", "must not be negative")
	}
	return fields.Err(validationFailedLabel)
}

// CreateAssignment publishes coursework that links to the game and is due
// when the game expires.
func (p *Provider) CreateAssignment(ctx context.Context, req CreateAssignmentRequest, token core.Token) (core.CallResult, error) {
	if err := firstError(req.Validate(), ValidateToken(token)); err != nil {
		return core.CallResult{}, err
	}
	maxPoints := req.MaxPoints
	if maxPoints == 0 {
		maxPoints = defaultMaxPoints
	}
	due := req.Game.DueAt()
	courseWork := map[string]any{
		"title":       req.Game.Name,
		"description": req.Description,
		"materials":   []any{req.Link.material()},
		"state":       "PUBLISHED",
		"dueDate":     DateOf(due),
		"dueTime":     ClockOf(due),
		"workType":    "ASSIGNMENT",
		"maxPoints":   maxPoints,
	}
	return p.Post(ctx, courseWorkRoute(req.CourseID), courseWork, token, core.CallOptions{})
}

type ListSubmissionsRequest struct {
	CourseID     string
	CourseWorkID string
	StudentID    string
}

// GetSubmissions lists submissions for coursework. Students only see their
// own; teachers see every submission unless StudentID narrows it.
func (p *Provider) GetSubmissions(ctx context.Context, req ListSubmissionsRequest, token core.Token) (core.CallResult, error) {
	var fields core.FieldErrors
	fields.Required("courseId", req.CourseID)
	fields.Required("courseWorkId", req.CourseWorkID)
	if err := firstError(fields.Err(validationFailedLabel), ValidateToken(token)); err != nil {
		return core.CallResult{}, err
	}
	data := map[string]any{}
	if studentID := strings.TrimSpace(req.StudentID); studentID != "" {
		data["userId"] = studentID
	}
	return p.Get(ctx, submissionsRoute(req.CourseID, req.CourseWorkID), data, token, core.CallOptions{})
}

// SubmissionRef addresses one student submission.
type SubmissionRef struct {
	CourseID     string
	CourseWorkID string
	SubmissionID string
}

func (r SubmissionRef) Validate() error {
	var fields core.FieldErrors
	fields.Required("courseId", r.CourseID)
	fields.Required("courseWorkId", r.CourseWorkID)
	fields.Required("subId", r.SubmissionID)
	return fields.Err(validationFailedLabel)
}

func (r SubmissionRef) route(action string) string {
	route := submissionsRoute(r.CourseID, r.CourseWorkID) + "/" + url.PathEscape(strings.TrimSpace(r.SubmissionID))
	if action != "" {
		route += ":" + action
	}
	return route
}

type AddAttachmentRequest struct {
	SubmissionRef
	Link Link
}

// AddAttachment attaches a link to a submission.
func (p *Provider) AddAttachment(ctx context.Context, req AddAttachmentRequest, token core.Token) (core.CallResult, error) {
	var fields core.FieldErrors
	validateLink(&fields, "link.url", req.Link.URL)
	err := firstError(req.SubmissionRef.Validate(), fields.Err(validationFailedLabel), ValidateToken(token))
	if err != nil {
		return core.CallResult{}, err
	}
	data := map[string]any{
		"addAttachments": []any{req.Link.material()},
	}
	return p.Post(ctx, req.route("modifyAttachments"), data, token, core.CallOptions{})
}

// Submit turns in a submission on behalf of the student owning the token.
func (p *Provider) Submit(ctx context.Context, req SubmissionRef, token core.Token) (core.CallResult, error) {
	if err := firstError(req.Validate(), ValidateToken(token)); err != nil {
		return core.CallResult{}, err
	}
	return p.Post(ctx, req.route("turnIn"), map[string]any{}, token, core.CallOptions{})
}

// AskBack returns a turned in submission to the student.
func (p *Provider) AskBack(ctx context.Context, req SubmissionRef, token core.Token) (core.CallResult, error) {
	if err := firstError(req.Validate(), ValidateToken(token)); err != nil {
		return core.CallResult{}, err
	}
	return p.Post(ctx, req.route("return"), map[string]any{}, token, core.CallOptions{})
}

type GradeRequest struct {
	CourseID     string
	CourseWorkID string
	Submission   map[string]any
	Grade        float64
}

// Grade sets assignedGrade on the submission, sending the submission back
// with only that field in the update mask.
func (p *Provider) Grade(ctx context.Context, req GradeRequest, token core.Token) (core.CallResult, error) {
	var fields core.FieldErrors
	fields.Required("courseId", req.CourseID)
	fields.Required("courseWorkId", req.CourseWorkID)
	submissionID := ""
	if req.Submission == nil {
		fields.Add("submission", "is required")
	} else if id, ok := req.Submission["id"]; ok && id != nil {
		submissionID = strings.TrimSpace(fmt.Sprint(id))
	}
	if req.Submission != nil && submissionID == "" {
		fields.Add("submission.id", "is required")
	}
	if req.Grade < 0 {
		fields.Add("grade", "must not be negative")
	}
	if err := firstError(fields.Err(validationFailedLabel), ValidateToken(token)); err != nil {
		return core.CallResult{}, err
	}

	submission := make(map[string]any, len(req.Submission)+1)
	for key, value := range req.Submission {
		submission[key] = value
	}
	submission["assignedGrade"] = req.Grade

	route := submissionsRoute(req.CourseID, req.CourseWorkID) + "/" + url.PathEscape(submissionID) +
		"?updateMask=assignedGrade"
	return p.Patch(ctx, route, submission, token, core.CallOptions{})
}

// ValidateToken checks that token carries every field Classroom calls rely
// on, including the refresh token needed by the retry path.
func ValidateToken(token core.Token) error {
	var fields core.FieldErrors
	fields.Required("access_token", token.AccessToken)
	fields.Required("refresh_token", token.RefreshToken)
	fields.Required("token_type", token.TokenType)
	if token.ExpiresIn <= 0 {
		fields.Add("expires_in", "is required")
	}
	if token.LastRefresh.IsZero() {
		fields.Add("lastRefresh", "is required")
	}
	return fields.Err("providers/classroom: invalid token")
}

func ValidCourseState(state string) bool {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case CourseStateActive, CourseStateArchived, CourseStateProvisioned, CourseStateDeclined:
		return true
	default:
		return false
	}
}

func courseWorkRoute(courseID string) string {
	return "v1/courses/" + url.PathEscape(strings.TrimSpace(courseID)) + "/courseWork"
}

func submissionsRoute(courseID string, courseWorkID string) string {
	return courseWorkRoute(courseID) + "/" + url.PathEscape(strings.TrimSpace(courseWorkID)) + "/studentSubmissions"
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

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
